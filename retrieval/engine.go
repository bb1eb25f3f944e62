package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/noemata/korpus/ai"
	"github.com/noemata/korpus/core"
	"github.com/noemata/korpus/document"
	"github.com/noemata/korpus/storage"
)

// Engine implements indexing and semantic querying over the knowledge base.
// It never mutates persisted state except through the chunk store.
type Engine struct {
	loader   *document.Loader
	embedder ai.Embedder
	store    storage.ChunkStore
	poolSize int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size used by IndexAll.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.poolSize = size
		return nil
	}
}

// NewEngine creates a retrieval engine over the given collaborators.
func NewEngine(loader *document.Loader, embedder ai.Embedder, store storage.ChunkStore, opts ...Option) (*Engine, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	e := &Engine{
		loader:   loader,
		embedder: embedder,
		store:    store,
		poolSize: poolSize,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// IndexResult reports the outcome of indexing one document.
type IndexResult struct {
	Path          string
	ChunksIndexed int
}

// IndexDocument loads the file at path, embeds all of its chunks in one
// batch, and replaces the document's records in the knowledge base.
func (e *Engine) IndexDocument(ctx context.Context, path string) (*IndexResult, error) {
	return e.IndexDocumentWithMonitor(ctx, path, nil)
}

// IndexDocumentWithMonitor indexes a document, reporting progress to the
// monitor at each stage.
//
// Stale records are always dropped before fresh ones are written, so chunks
// from a shrunk document never linger. A document that yields no chunks is
// removed from the knowledge base and reported with ChunksIndexed zero.
func (e *Engine) IndexDocumentWithMonitor(ctx context.Context, path string, monitor IndexMonitor) (*IndexResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(path)

	chunks, err := e.loader.Load(path)
	if err != nil {
		e.logger.Error("error loading document", "path", path, "err", err)
		return nil, err
	}
	monitor.Loaded(len(chunks))

	if len(chunks) == 0 {
		if _, err := e.store.DeleteBySource(ctx, path); err != nil {
			return nil, err
		}
		monitor.Finish(0)
		return &IndexResult{Path: path}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		e.logger.Error("error embedding chunks", "path", path, "chunks", len(texts), "err", err)
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d vectors, received %d",
			core.ErrEmbedding, len(chunks), len(vectors))
	}
	monitor.Embedded(len(vectors))

	if _, err := e.store.DeleteBySource(ctx, path); err != nil {
		return nil, err
	}

	records := make([]*core.IndexedVector, len(chunks))
	for i, chunk := range chunks {
		records[i] = &core.IndexedVector{Chunk: chunk, Vector: vectors[i]}
	}
	if err := e.store.Upsert(ctx, records); err != nil {
		return nil, err
	}

	monitor.Finish(len(records))
	e.logger.Info("indexed document", "path", path, "chunks", len(records))
	return &IndexResult{Path: path, ChunksIndexed: len(records)}, nil
}

// DocumentOutcome is one document's result from a batch indexing run.
type DocumentOutcome struct {
	Path   string
	Result *IndexResult
	Err    error
}

// IndexAll indexes multiple documents over a worker pool. One document's
// failure never aborts the rest; each path gets its own outcome, in input
// order. Loading and storing run concurrently; embedding calls remain
// serialized by the embedder itself.
func (e *Engine) IndexAll(ctx context.Context, paths []string) ([]DocumentOutcome, error) {
	pool, err := ants.NewPool(e.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	outcomes := make([]DocumentOutcome, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		outcomes[i].Path = path
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			result, err := e.IndexDocument(ctx, path)
			outcomes[i].Result = result
			outcomes[i].Err = err
		})
		if submitErr != nil {
			wg.Done()
			outcomes[i].Err = submitErr
		}
	}
	wg.Wait()
	return outcomes, nil
}

// Query embeds the text and returns the topK most similar chunks with
// scores at or above scoreThreshold. Blank text returns an empty result
// without touching the embedder, so querying an empty or absent knowledge
// base is never an error.
func (e *Engine) Query(ctx context.Context, text string, topK int, scoreThreshold float32) ([]*core.SearchResult, error) {
	if strings.TrimSpace(text) == "" {
		return []*core.SearchResult{}, nil
	}
	// Validate before any model or store work.
	if err := core.ValidateTopK(topK); err != nil {
		return nil, err
	}

	vector, err := e.embedder.EmbedText(ctx, text)
	if err != nil {
		e.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	return e.store.Search(ctx, vector, topK, scoreThreshold)
}

// DeleteDocument removes every record for the document at path.
// Returns the number of chunks removed.
func (e *Engine) DeleteDocument(ctx context.Context, path string) (int, error) {
	return e.store.DeleteBySource(ctx, path)
}

// Clear empties the knowledge base.
func (e *Engine) Clear(ctx context.Context) error {
	return e.store.Clear(ctx)
}

// ListDocuments summarizes every indexed document.
func (e *Engine) ListDocuments(ctx context.Context) ([]*core.DocumentInfo, error) {
	return e.store.ListDocuments(ctx)
}

// Stats describes the knowledge base and the chunking it was built with.
type Stats struct {
	Documents    int
	Chunks       int
	ChunkSize    int
	ChunkOverlap int
}

// Stats reports knowledge base totals.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	docs, err := e.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := e.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Documents:    len(docs),
		Chunks:       chunks,
		ChunkSize:    e.loader.Chunker().Size(),
		ChunkOverlap: e.loader.Chunker().Overlap(),
	}, nil
}
