package storage

import (
	"context"

	"github.com/noemata/korpus/core"
)

// ChunkStore owns the knowledge base: every persisted chunk vector passes
// through this interface, and nothing else mutates the underlying state.
// Implementations must be safe for concurrent use and durable across process
// restarts (except explicitly in-memory test stores).
type ChunkStore interface {
	// Upsert stores or replaces indexed vectors by chunk identity.
	// The write is atomic: a reader never observes a half-written batch.
	Upsert(ctx context.Context, records []*core.IndexedVector) error

	// DeleteBySource removes every record whose chunk originated from the
	// given source path. Returns the number of records removed; deleting an
	// unknown source is not an error.
	DeleteBySource(ctx context.Context, source string) (int, error)

	// Search returns up to topK records ranked by descending similarity to
	// the query vector, excluding scores below scoreThreshold. Scores are
	// normalized into [0, 1]. Ties are broken by upsert order, earliest
	// first. topK <= 0 fails with core.ErrConfiguration.
	Search(ctx context.Context, vector []float32, topK int, scoreThreshold float32) ([]*core.SearchResult, error)

	// Clear removes all records unconditionally.
	Clear(ctx context.Context) error

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)

	// ListDocuments summarizes every indexed document, sorted by source path.
	ListDocuments(ctx context.Context) ([]*core.DocumentInfo, error)

	// Close releases resources held by the store.
	Close() error
}
