package retrieval

import "errors"

var (
	// ErrLoaderRequired indicates the engine was built without a loader.
	ErrLoaderRequired = errors.New("document loader is required")

	// ErrEmbedderRequired indicates the engine was built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrStoreRequired indicates the engine was built without a chunk store.
	ErrStoreRequired = errors.New("chunk store is required")
)
