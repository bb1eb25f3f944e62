package korpus

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noemata/korpus/ai/mock"
	"github.com/noemata/korpus/config"
	"github.com/noemata/korpus/core"
	"github.com/noemata/korpus/storage"
	storagebadger "github.com/noemata/korpus/storage/badger"
)

func openTestKB(t *testing.T) *KnowledgeBase {
	t.Helper()
	kb, err := Open(nil, WithInMemory(), WithEmbedder(mock.NewEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { kb.Close() })
	return kb
}

func writeTestDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		kb := openTestKB(t)
		assert.Equal(t, 500, kb.Config().Chunking.ChunkSize)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := config.Default()
		cfg.Chunking.ChunkOverlap = cfg.Chunking.ChunkSize
		_, err := Open(cfg, WithInMemory(), WithEmbedder(mock.NewEmbedder()))
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("persists to disk", func(t *testing.T) {
		ctx := context.Background()
		cfg := config.Default()
		cfg.KnowledgeBase.Path = filepath.Join(t.TempDir(), "kb")

		kb, err := Open(cfg, WithEmbedder(mock.NewEmbedder()))
		require.NoError(t, err)

		path := writeTestDoc(t, "doc.txt", "durable content")
		_, err = kb.IndexDocument(ctx, path)
		require.NoError(t, err)
		require.NoError(t, kb.Close())

		kb, err = Open(cfg, WithEmbedder(mock.NewEmbedder()))
		require.NoError(t, err)
		defer kb.Close()

		stats, err := kb.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Documents)
	})
}

func TestKnowledgeBaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	kb := openTestKB(t)

	path := writeTestDoc(t, "notes.md", "# Topic\n\nthe answer lives here\n")
	result, err := kb.IndexDocument(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunksIndexed)

	results, err := kb.Query(ctx, "the answer lives here")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, path, results[0].Chunk.Metadata.Source)
	assert.Equal(t, "Topic", results[0].Chunk.Metadata.Section)

	docs, err := kb.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, path, docs[0].Source)

	removed, err := kb.DeleteDocument(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stats, err := kb.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
}

func TestKnowledgeBaseLoadDocument(t *testing.T) {
	kb := openTestKB(t)
	path := writeTestDoc(t, "inspect.md", "# A\n\nbody a\n\n# B\n\nbody b\n")

	chunks, err := kb.LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "A", chunks[0].Metadata.Section)
	assert.Equal(t, "B", chunks[1].Metadata.Section)

	// Loading must not index anything.
	stats, err := kb.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Chunks)
}

func TestKnowledgeBaseQueryDefaults(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Retrieval.TopK = 1

	kb, err := Open(cfg, WithInMemory(), WithEmbedder(mock.NewEmbedder()))
	require.NoError(t, err)
	defer kb.Close()

	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0o644))
		_, err = kb.IndexDocument(ctx, path)
		require.NoError(t, err)
	}

	// Configured top_k of 1 caps the default query.
	results, err := kb.Query(ctx, "content")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// Explicit override widens it.
	results, err = kb.QueryWith(ctx, "content", 3, 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

// brokenStore fails to close; every other method is unused.
type brokenStore struct {
	storage.ChunkStore
	closeErr error
}

func (s *brokenStore) Close() error { return s.closeErr }

func TestKnowledgeBaseCloseReleasesBackend(t *testing.T) {
	backend, err := storagebadger.OpenBackend("", true)
	require.NoError(t, err)

	closeErr := errors.New("sequence release failed")
	kb := &KnowledgeBase{
		cfg:     config.Default(),
		backend: backend,
		store:   &brokenStore{closeErr: closeErr},
		logger:  slog.Default(),
	}

	err = kb.Close()
	assert.ErrorIs(t, err, closeErr)
	// The backend must be released even when the store close fails.
	assert.True(t, backend.IsClosed())
}

func TestKnowledgeBaseClear(t *testing.T) {
	ctx := context.Background()
	kb := openTestKB(t)

	path := writeTestDoc(t, "doc.txt", "to be cleared")
	_, err := kb.IndexDocument(ctx, path)
	require.NoError(t, err)

	require.NoError(t, kb.Clear(ctx))

	stats, err := kb.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Chunks)
}
