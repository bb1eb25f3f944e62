package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be safe for concurrent use and must be
// deterministic for a fixed model: identical input text yields identical
// vectors regardless of call order or batch composition.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a single batch.
	// The returned slice matches the order of the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
