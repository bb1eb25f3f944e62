package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the two record shapes the store persists.
// Timestamps travel as Unix microseconds, vectors as a varint length followed
// by raw float32 values.

// IndexedVectorMUS serializes IndexedVector records.
var IndexedVectorMUS = indexedVectorMUS{}

type indexedVectorMUS struct{}

func (indexedVectorMUS) Marshal(v IndexedVector, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Chunk.DocumentID), bs)
	n += varint.Int.Marshal(v.Chunk.Index, bs[n:])
	n += ord.String.Marshal(v.Chunk.Text, bs[n:])
	n += ord.String.Marshal(v.Chunk.Metadata.Source, bs[n:])
	n += ord.String.Marshal(v.Chunk.Metadata.Format, bs[n:])
	n += ord.String.Marshal(v.Chunk.Metadata.Section, bs[n:])
	n += varint.Int.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += varint.Uint64.Marshal(v.Seq, bs[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (indexedVectorMUS) Unmarshal(bs []byte) (v IndexedVector, n int, err error) {
	var n1 int
	var docID uint64
	docID, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Chunk.DocumentID = ID(docID)
	v.Chunk.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunk.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunk.Metadata.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunk.Metadata.Format, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunk.Metadata.Section, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length > 0 {
		v.Vector = make([]float32, length)
		for i := 0; i < length; i++ {
			v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	v.Seq, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (indexedVectorMUS) Size(v IndexedVector) (size int) {
	size = varint.Uint64.Size(uint64(v.Chunk.DocumentID))
	size += varint.Int.Size(v.Chunk.Index)
	size += ord.String.Size(v.Chunk.Text)
	size += ord.String.Size(v.Chunk.Metadata.Source)
	size += ord.String.Size(v.Chunk.Metadata.Format)
	size += ord.String.Size(v.Chunk.Metadata.Section)
	size += varint.Int.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += raw.Float32.Size(f)
	}
	size += varint.Uint64.Size(v.Seq)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	return size
}

// DocumentInfoMUS serializes per-document summary records.
var DocumentInfoMUS = documentInfoMUS{}

type documentInfoMUS struct{}

func (documentInfoMUS) Marshal(d DocumentInfo, bs []byte) (n int) {
	n = ord.String.Marshal(d.Source, bs)
	n += ord.String.Marshal(d.Format, bs[n:])
	n += varint.Int.Marshal(d.Chunks, bs[n:])
	n += varint.Int64.Marshal(d.IndexedAt.UnixMicro(), bs[n:])
	return n
}

func (documentInfoMUS) Unmarshal(bs []byte) (d DocumentInfo, n int, err error) {
	var n1 int
	d.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	d.Format, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Chunks, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.IndexedAt = time.UnixMicro(micros).UTC()
	return
}

func (documentInfoMUS) Size(d DocumentInfo) (size int) {
	size = ord.String.Size(d.Source)
	size += ord.String.Size(d.Format)
	size += varint.Int.Size(d.Chunks)
	size += varint.Int64.Size(d.IndexedAt.UnixMicro())
	return size
}
