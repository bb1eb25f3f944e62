package document

import (
	"strings"

	"github.com/noemata/korpus/core"
)

// Chunker splits segment text into windows of at most Size runes, carrying
// the last Overlap runes of each window into the next so context survives
// the cut. It is format-agnostic: it only ever sees text.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. size is the rune budget per chunk; overlap is
// the number of runes repeated between consecutive chunks and must satisfy
// 0 <= overlap < size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if err := core.ValidateChunking(size, overlap); err != nil {
		return nil, err
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the rune budget per chunk.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of runes repeated between consecutive chunks.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into chunks of at most Size runes. Text that fits the
// budget is returned unchanged (after trimming surrounding whitespace).
// For longer text the windows advance by Size-Overlap runes, so the last
// Overlap runes of each chunk equal the first Overlap runes of the next.
// Whitespace-only windows are dropped; empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, window)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
