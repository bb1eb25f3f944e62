// Package storage defines the vector store contract for the knowledge base
// and the serialization of its persisted records. The BadgerDB
// implementation lives in storage/badger.
package storage
