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


package korpus

import (
	"context"
	"errors"
	"log/slog"

	"github.com/noemata/korpus/ai"
	"github.com/noemata/korpus/ai/openai"
	"github.com/noemata/korpus/config"
	"github.com/noemata/korpus/core"
	"github.com/noemata/korpus/document"
	"github.com/noemata/korpus/retrieval"
	"github.com/noemata/korpus/storage"
	storagebadger "github.com/noemata/korpus/storage/badger"
)

// KnowledgeBase is the top-level handle over the full stack: document
// loading, embedding, durable vector storage, and retrieval. It owns every
// component it opens and releases them in Close.
type KnowledgeBase struct {
	cfg     *config.Config
	backend *storagebadger.Backend
	store   storage.ChunkStore
	loader  *document.Loader
	engine  *retrieval.Engine
	logger  *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase at open time.
type KnowledgeBaseOption func(*kbOptions)

type kbOptions struct {
	embedder ai.Embedder
	inMemory bool
	logger   *slog.Logger
	workers  int
}

// WithEmbedder replaces the default OpenAI-compatible embedder. Used by
// tests and by callers that bring their own embedding service binding.
func WithEmbedder(embedder ai.Embedder) KnowledgeBaseOption {
	return func(o *kbOptions) { o.embedder = embedder }
}

// WithInMemory opens the knowledge base without touching disk. All data is
// lost on Close.
func WithInMemory() KnowledgeBaseOption {
	return func(o *kbOptions) { o.inMemory = true }
}

// WithLogger sets the logger used by every component.
func WithLogger(logger *slog.Logger) KnowledgeBaseOption {
	return func(o *kbOptions) { o.logger = logger }
}

// WithWorkers sets the worker pool size used when indexing many documents.
func WithWorkers(n int) KnowledgeBaseOption {
	return func(o *kbOptions) { o.workers = n }
}

// Open wires the knowledge base from configuration. A nil cfg uses the
// defaults, which point at a local Ollama-style embedding service and a
// ./korpus.db data directory.
func Open(cfg *config.Config, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &kbOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := storagebadger.OpenBackend(cfg.KnowledgeBase.Path, options.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := storagebadger.NewChunkStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(ai.NewConfig(
			ai.WithHost(cfg.Embedding.Host),
			ai.WithModel(cfg.Embedding.Model),
			ai.WithAPIKeyEnv(cfg.Embedding.APIKeyEnv),
			ai.WithBatchSize(cfg.Embedding.BatchSize),
		))
		if err != nil {
			store.Close()
			backend.Close()
			return nil, err
		}
	}

	chunker, err := document.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	loader, err := document.NewLoader(chunker, document.WithLogger(options.logger))
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	engineOpts := []retrieval.Option{retrieval.WithLogger(options.logger)}
	if options.workers > 0 {
		engineOpts = append(engineOpts, retrieval.WithPoolSize(options.workers))
	}
	engine, err := retrieval.NewEngine(loader, embedder, store, engineOpts...)
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	return &KnowledgeBase{
		cfg:     cfg,
		backend: backend,
		store:   store,
		loader:  loader,
		engine:  engine,
		logger:  options.logger,
	}, nil
}

// Close releases the store and the underlying storage backend. The backend
// is closed even when the store fails to close, so no database lock or file
// handle outlives the handle.
func (kb *KnowledgeBase) Close() error {
	storeErr := kb.store.Close()
	if storeErr != nil {
		kb.logger.Error("error closing chunk store", "err", storeErr)
	}
	backendErr := kb.backend.Close()
	if backendErr != nil {
		kb.logger.Error("error closing storage backend", "err", backendErr)
	}
	return errors.Join(storeErr, backendErr)
}

// Config returns the configuration this knowledge base was opened with.
func (kb *KnowledgeBase) Config() *config.Config { return kb.cfg }

// IndexDocument loads, embeds, and stores one document, replacing any
// previously indexed version.
func (kb *KnowledgeBase) IndexDocument(ctx context.Context, path string) (*retrieval.IndexResult, error) {
	return kb.engine.IndexDocument(ctx, path)
}

// IndexDocumentWithMonitor indexes one document with progress callbacks.
func (kb *KnowledgeBase) IndexDocumentWithMonitor(ctx context.Context, path string, monitor retrieval.IndexMonitor) (*retrieval.IndexResult, error) {
	return kb.engine.IndexDocumentWithMonitor(ctx, path, monitor)
}

// IndexAll indexes several documents concurrently, one outcome per path.
func (kb *KnowledgeBase) IndexAll(ctx context.Context, paths []string) ([]retrieval.DocumentOutcome, error) {
	return kb.engine.IndexAll(ctx, paths)
}

// Query returns the chunks most similar to text, using the configured
// retrieval defaults for topK and score threshold.
func (kb *KnowledgeBase) Query(ctx context.Context, text string) ([]*core.SearchResult, error) {
	return kb.engine.Query(ctx, text, kb.cfg.Retrieval.TopK, kb.cfg.Retrieval.ScoreThreshold)
}

// QueryWith returns the chunks most similar to text with explicit topK and
// score threshold, overriding the configured defaults.
func (kb *KnowledgeBase) QueryWith(ctx context.Context, text string, topK int, scoreThreshold float32) ([]*core.SearchResult, error) {
	return kb.engine.Query(ctx, text, topK, scoreThreshold)
}

// LoadDocument parses and chunks a file without embedding or storing
// anything. Useful for inspecting what indexing would produce.
func (kb *KnowledgeBase) LoadDocument(path string) ([]core.Chunk, error) {
	return kb.loader.Load(path)
}

// DeleteDocument removes every record for the document at path and returns
// the number of chunks removed.
func (kb *KnowledgeBase) DeleteDocument(ctx context.Context, path string) (int, error) {
	return kb.engine.DeleteDocument(ctx, path)
}

// Clear removes every indexed document.
func (kb *KnowledgeBase) Clear(ctx context.Context) error {
	return kb.engine.Clear(ctx)
}

// ListDocuments summarizes every indexed document, sorted by source path.
func (kb *KnowledgeBase) ListDocuments(ctx context.Context) ([]*core.DocumentInfo, error) {
	return kb.engine.ListDocuments(ctx)
}

// Stats reports document and chunk totals plus the active chunking
// parameters.
func (kb *KnowledgeBase) Stats(ctx context.Context) (*retrieval.Stats, error) {
	return kb.engine.Stats(ctx)
}
