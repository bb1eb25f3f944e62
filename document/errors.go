package document

import "errors"

var (
	// ErrChunkerRequired indicates a Loader was constructed without a Chunker.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrNoExtensions indicates a parser was registered without extensions.
	ErrNoExtensions = errors.New("parser declares no extensions")
)
