package openai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/noemata/korpus/ai"
	"github.com/noemata/korpus/core"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
//
// The client is built on the first embedding call and reused for the process
// lifetime. Inference calls are serialized with a mutex: local model servers
// are not guaranteed safe for concurrent inference, and serializing here
// keeps that contract out of every caller.
type Embedder struct {
	config *ai.Config
	logger *slog.Logger

	initOnce sync.Once
	initErr  error
	embedder embeddings.Embedder

	mu sync.Mutex
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder from the provided configuration. The
// configuration is validated immediately; the model client is not touched
// until the first EmbedText/EmbedTexts call.
func NewEmbedder(config *ai.Config) (*Embedder, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		config: config,
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// init builds the langchaingo client once. Subsequent calls return the first
// outcome, including a failure: a misconfigured endpoint fails every call
// rather than silently retrying construction.
func (e *Embedder) init() error {
	e.initOnce.Do(func() {
		token := "none" // local OpenAI-compatible services accept any token
		if e.config.APIKeyEnv != "" {
			if v := os.Getenv(e.config.APIKeyEnv); v != "" {
				token = v
			}
		}

		client, err := openai.New(
			openai.WithBaseURL(e.config.Host),
			openai.WithToken(token),
			openai.WithEmbeddingModel(e.config.Model),
		)
		if err != nil {
			e.initErr = fmt.Errorf("%w: creating client: %w", core.ErrEmbedding, err)
			return
		}

		embedder, err := embeddings.NewEmbedder(client,
			embeddings.WithStripNewLines(true),
			embeddings.WithBatchSize(e.config.BatchSize),
		)
		if err != nil {
			e.initErr = fmt.Errorf("%w: creating embedder: %w", core.ErrEmbedding, err)
			return
		}

		e.logger.Debug("embedding client initialized", "host", e.config.Host, "model", e.config.Model)
		e.embedder = embedder
	})
	return e.initErr
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty result", core.ErrEmbedding)
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for multiple texts in a single batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.init(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: result mismatch, expected %d vectors, received %d",
			core.ErrEmbedding, len(texts), len(vectors))
	}
	return vectors, nil
}
