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


package core

import (
	"fmt"
	"strings"
)

// ValidateChunking validates chunk splitting parameters.
//
// Rules:
//   - chunkSize must be positive
//   - chunkOverlap must satisfy 0 <= chunkOverlap < chunkSize
func ValidateChunking(chunkSize, chunkOverlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfiguration, chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return fmt.Errorf("%w: chunk overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d",
			ErrConfiguration, chunkOverlap, chunkSize)
	}
	return nil
}

// ValidateTopK validates the maximum result count for a search.
func ValidateTopK(topK int) error {
	if topK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrConfiguration, topK)
	}
	return nil
}

// ValidateChunk validates a chunk before it is persisted.
//
// Rules:
//   - Text must be non-empty after whitespace normalization
//   - Metadata.Source must not be empty
//
// NOT validated:
//   - Vector presence (attached by the retrieval engine, not the loader)
//   - Section (optional provenance label)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrEmptyChunk)
	}
	if strings.TrimSpace(chunk.Text) == "" {
		return ErrEmptyChunk
	}
	if chunk.Metadata.Source == "" {
		return ErrEmptySource
	}
	return nil
}
