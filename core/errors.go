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

import "errors"

// Domain errors. Every failure surfaced by the loader, the embedder, or the
// store wraps exactly one of these, so callers can classify outcomes with
// errors.Is without depending on a concrete implementation.
var (
	// ErrUnsupportedFormat indicates a file extension no parser recognizes.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrParse indicates a file is present but unreadable or corrupt for its
	// claimed format.
	ErrParse = errors.New("document parse failed")

	// ErrConfiguration indicates invalid chunking or retrieval parameters.
	// Raised before any I/O is performed.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmbedding indicates the embedding model failed to load or failed on
	// a given input. Previously stored vectors are unaffected.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore indicates the persistence layer is unavailable or corrupt.
	ErrStore = errors.New("storage failure")

	// ErrEmptyChunk indicates a chunk whose text is empty after whitespace
	// normalization.
	ErrEmptyChunk = errors.New("chunk text cannot be empty")

	// ErrEmptySource indicates a chunk without an originating file path.
	ErrEmptySource = errors.New("chunk source cannot be empty")
)
