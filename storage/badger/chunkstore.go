package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/noemata/korpus/core"
	"github.com/noemata/korpus/storage"
)

// ChunkStore implements storage.ChunkStore on BadgerDB. Chunk records are
// keyed by (document ID, chunk index), so re-indexing a document overwrites
// its records in place and a single prefix scan covers one document.
type ChunkStore struct {
	backend *Backend
	seq     *badger.Sequence
	logger  *slog.Logger
}

var _ storage.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore creates a ChunkStore on the given backend.
func NewChunkStore(backend *Backend) (*ChunkStore, error) {
	seq, err := backend.GetSequence(upsertSeqName)
	if err != nil {
		return nil, storeErr(err)
	}
	return &ChunkStore{
		backend: backend,
		seq:     seq,
		logger:  slog.Default().With("component", "chunkstore"),
	}, nil
}

// Close releases the upsert sequence. The backend is closed by its owner.
func (s *ChunkStore) Close() error {
	return s.seq.Release()
}

// Upsert stores or replaces indexed vectors in a single transaction, and
// refreshes the per-document summary for every document touched.
func (s *ChunkStore) Upsert(ctx context.Context, records []*core.IndexedVector) error {
	for _, record := range records {
		if err := core.ValidateChunk(&record.Chunk); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		touched := make(map[core.ID]*core.DocumentInfo)
		for _, record := range records {
			if record.Seq == 0 {
				next, err := s.seq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call; 0 means
				// "unassigned" here, so skip it.
				if next == 0 {
					next, err = s.seq.Next()
					if err != nil {
						return err
					}
				}
				record.Seq = next
			}
			if record.InsertedAt.IsZero() {
				record.InsertedAt = now
			}

			key := makeChunkKey(record.Chunk.DocumentID, record.Chunk.Index)
			if err := tx.Set(key, storage.MarshalIndexedVector(record)); err != nil {
				return err
			}

			touched[record.Chunk.DocumentID] = &core.DocumentInfo{
				Source:    record.Chunk.Metadata.Source,
				Format:    record.Chunk.Metadata.Format,
				IndexedAt: now,
			}
		}

		// Count each touched document's chunks inside the same transaction,
		// so the summary reflects pre-existing records as well.
		for docID, info := range touched {
			info.Chunks = countPrefix(tx, makeDocumentChunkPrefix(docID))
			if err := tx.Set(makeDocumentInfoKey(docID), storage.MarshalDocumentInfo(info)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return storeErr(err)
	}

	s.logger.Debug("upserted records", "records", len(records))
	return nil
}

// DeleteBySource removes every record for the document at the given source
// path, along with its summary. Returns the number of chunk records removed.
func (s *ChunkStore) DeleteBySource(ctx context.Context, source string) (int, error) {
	docID := core.IDFromContent(source)

	deleted := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		keys := collectKeys(tx, makeDocumentChunkPrefix(docID))
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		deleted = len(keys)

		err := tx.Delete(makeDocumentInfoKey(docID))
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, storeErr(err)
	}

	s.logger.Debug("deleted document records", "source", source, "records", deleted)
	return deleted, nil
}

// Search scans all stored vectors and returns the topK most similar,
// filtered by scoreThreshold. Scores are cosine similarity mapped into
// [0, 1]; ties are broken by upsert order, earliest first.
func (s *ChunkStore) Search(ctx context.Context, vector []float32, topK int, scoreThreshold float32) ([]*core.SearchResult, error) {
	if err := core.ValidateTopK(topK); err != nil {
		return nil, err
	}

	type scored struct {
		result *core.SearchResult
		seq    uint64
	}
	var matches []scored

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.IndexedVector
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalIndexedVector(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(record.Vector) == 0 {
				continue
			}

			score, ok := cosineScore(vector, record.Vector)
			if !ok || score < scoreThreshold {
				continue
			}
			matches = append(matches, scored{
				result: &core.SearchResult{Chunk: record.Chunk, Score: score},
				seq:    record.Seq,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, storeErr(err)
	}

	slices.SortFunc(matches, func(a, b scored) int {
		if a.result.Score != b.result.Score {
			if a.result.Score > b.result.Score {
				return -1
			}
			return 1
		}
		// Equal scores: earlier-indexed chunk ranks first.
		if a.seq < b.seq {
			return -1
		}
		if a.seq > b.seq {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	results := make([]*core.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = m.result
	}
	return results, nil
}

// Clear removes all chunk records and document summaries.
func (s *ChunkStore) Clear(ctx context.Context) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range [][]byte{makeChunkScanPrefix(), makeDocumentInfoScanPrefix()} {
			for _, key := range collectKeys(tx, prefix) {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// Count returns the total number of stored chunk records.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		count = countPrefix(tx, makeChunkScanPrefix())
		return nil
	}, false)
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// ListDocuments returns every indexed document's summary, sorted by source.
func (s *ChunkStore) ListDocuments(ctx context.Context) ([]*core.DocumentInfo, error) {
	var infos []*core.DocumentInfo
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentInfoScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				info, err := storage.UnmarshalDocumentInfo(val)
				if err != nil {
					return err
				}
				infos = append(infos, info)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, storeErr(err)
	}

	slices.SortFunc(infos, func(a, b *core.DocumentInfo) int {
		if a.Source < b.Source {
			return -1
		}
		if a.Source > b.Source {
			return 1
		}
		return 0
	})
	return infos, nil
}

// collectKeys gathers every key under prefix. Deletion while iterating is
// not allowed in badger, so callers collect first and delete after.
func collectKeys(tx *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}

func countPrefix(tx *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	count := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		count++
	}
	return count
}

// cosineScore maps cosine similarity into [0, 1]: score = (1 + cos) / 2.
// This is the same monotonic transform the threshold is defined against,
// regardless of embedding model. Returns ok=false for zero-norm vectors.
func cosineScore(a, b []float32) (float32, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	score := (1 + cos) / 2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return float32(score), true
}

// storeErr wraps persistence failures so callers can classify them with
// errors.Is(err, core.ErrStore) while keeping the badger detail in the chain.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", core.ErrStore, err)
}
