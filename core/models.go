package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for an indexed document.
// It is generated from the document's source path using content-based hashing,
// so re-indexing the same path always addresses the same records.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical input always produces the identical ID, across process restarts.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Metadata carries the provenance of a chunk for display alongside results.
type Metadata struct {
	Source  string // Originating file path
	Format  string // Parser that produced the chunk ("markdown", "pdf", ...)
	Section string // Heading text, page number, sheet name, or row range; may be empty
}

// Chunk is the atomic retrievable unit: a bounded span of text cut from a
// document, addressed by (document, index) so re-indexing overwrites rather
// than duplicates.
type Chunk struct {
	DocumentID ID
	Index      int
	Text       string
	Metadata   Metadata
}

// ID returns the chunk's stable identifier, a pure function of the source
// path hash and the chunk's position within the document.
func (c *Chunk) ID() string {
	return fmt.Sprintf("%016x_%d", uint64(c.DocumentID), c.Index)
}

// IndexedVector pairs a chunk with its embedding vector as persisted in the
// knowledge base. Seq records upsert order for deterministic tie-breaking.
type IndexedVector struct {
	Chunk      Chunk
	Vector     []float32
	Seq        uint64
	InsertedAt time.Time
}

// SearchResult is a chunk returned from similarity search with its
// normalized relevance score in [0, 1].
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// DocumentInfo summarizes one indexed document.
type DocumentInfo struct {
	Source    string
	Format    string
	Chunks    int
	IndexedAt time.Time
}
