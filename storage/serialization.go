// Copyright 2026 Noemata Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/noemata/korpus/core"
)

// MarshalIndexedVector serializes an IndexedVector to bytes.
func MarshalIndexedVector(record *core.IndexedVector) []byte {
	buf := make([]byte, core.IndexedVectorMUS.Size(*record))
	core.IndexedVectorMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalIndexedVector deserializes an IndexedVector from bytes.
func UnmarshalIndexedVector(data []byte) (*core.IndexedVector, error) {
	record, _, err := core.IndexedVectorMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalDocumentInfo serializes a DocumentInfo to bytes.
func MarshalDocumentInfo(info *core.DocumentInfo) []byte {
	buf := make([]byte, core.DocumentInfoMUS.Size(*info))
	core.DocumentInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalDocumentInfo deserializes a DocumentInfo from bytes.
func UnmarshalDocumentInfo(data []byte) (*core.DocumentInfo, error) {
	info, _, err := core.DocumentInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}
