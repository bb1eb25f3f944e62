package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noemata/korpus/core"
)

func newTestLoader(t *testing.T, size, overlap int) *Loader {
	t.Helper()
	chunker, err := NewChunker(size, overlap)
	require.NoError(t, err)
	loader, err := NewLoader(chunker)
	require.NoError(t, err)
	return loader
}

func TestNewLoader(t *testing.T) {
	t.Run("requires a chunker", func(t *testing.T) {
		_, err := NewLoader(nil)
		assert.ErrorIs(t, err, ErrChunkerRequired)
	})

	t.Run("registers the default formats", func(t *testing.T) {
		loader := newTestLoader(t, 500, 50)
		assert.Equal(t,
			[]string{".csv", ".docx", ".markdown", ".md", ".pdf", ".txt", ".xlsx"},
			loader.SupportedExtensions())
	})

	t.Run("custom parser replaces default for shared extensions", func(t *testing.T) {
		chunker, err := NewChunker(500, 50)
		require.NoError(t, err)
		loader, err := NewLoader(chunker, WithParser(NewPlainTextParser()))
		require.NoError(t, err)
		assert.Contains(t, loader.SupportedExtensions(), ".txt")
	})
}

func TestLoaderLoad(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		loader := newTestLoader(t, 500, 50)
		_, err := loader.Load("image.png")
		require.ErrorIs(t, err, core.ErrUnsupportedFormat)
		assert.Contains(t, err.Error(), ".png")
		assert.Contains(t, err.Error(), ".md")
	})

	t.Run("extension matching is case insensitive", func(t *testing.T) {
		loader := newTestLoader(t, 500, 50)
		path := writeTempFile(t, "NOTES.TXT", "uppercase extension")
		chunks, err := loader.Load(path)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "text", chunks[0].Metadata.Format)
	})

	t.Run("chunks carry provenance and sequential indexes", func(t *testing.T) {
		loader := newTestLoader(t, 30, 5)
		content := "# Alpha\n\n" + strings.Repeat("alpha content ", 5) +
			"\n\n# Beta\n\n" + strings.Repeat("beta content ", 5)
		path := writeTempFile(t, "doc.md", content)

		chunks, err := loader.Load(path)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 2)

		docID := core.IDFromContent(path)
		for i, chunk := range chunks {
			assert.Equal(t, docID, chunk.DocumentID)
			assert.Equal(t, i, chunk.Index)
			assert.Equal(t, path, chunk.Metadata.Source)
			assert.Equal(t, "markdown", chunk.Metadata.Format)
		}

		sections := make(map[string]bool)
		for _, chunk := range chunks {
			sections[chunk.Metadata.Section] = true
		}
		assert.True(t, sections["Alpha"])
		assert.True(t, sections["Beta"])
	})

	t.Run("loading is idempotent", func(t *testing.T) {
		loader := newTestLoader(t, 40, 10)
		path := writeTempFile(t, "stable.txt", strings.Repeat("stable content here ", 10))

		first, err := loader.Load(path)
		require.NoError(t, err)
		second, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("empty file yields no chunks", func(t *testing.T) {
		loader := newTestLoader(t, 500, 50)
		path := writeTempFile(t, "empty.txt", "")
		chunks, err := loader.Load(path)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("indexes stay sequential across segment boundaries", func(t *testing.T) {
		loader := newTestLoader(t, 500, 50)
		path := writeTempFile(t, "multi.md", "# One\n\nfirst\n\n# Two\n\nsecond\n")

		chunks, err := loader.Load(path)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, 1, chunks[1].Index)
	})
}
