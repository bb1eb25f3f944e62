package badger

import (
	"encoding/binary"

	"github.com/noemata/korpus/core"
)

// Key prefixes for the stored record types.
const (
	chunkRecordPrefix  = "chu"
	documentInfoPrefix = "doc"
	upsertSeqName      = "chuseq"
)

// makeChunkKey generates the key for one chunk record.
// Format: prefix:docID:index, both numbers big-endian so a prefix scan walks
// a document's chunks in segment order.
func makeChunkKey(docID core.ID, index int) []byte {
	prefix := chunkRecordPrefix + ":"
	buf := make([]byte, len(prefix)+12) // 8 bytes docID + 4 bytes index
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	binary.BigEndian.PutUint32(buf[offset+8:], uint32(index))
	return buf
}

// makeChunkScanPrefix generates the prefix covering all chunk records.
func makeChunkScanPrefix() []byte {
	return []byte(chunkRecordPrefix + ":")
}

// makeDocumentChunkPrefix generates the prefix covering one document's chunks.
func makeDocumentChunkPrefix(docID core.ID) []byte {
	prefix := chunkRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeDocumentInfoKey generates the key for a document summary record.
func makeDocumentInfoKey(docID core.ID) []byte {
	prefix := documentInfoPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeDocumentInfoScanPrefix generates the prefix covering all summaries.
func makeDocumentInfoScanPrefix() []byte {
	return []byte(documentInfoPrefix + ":")
}
