// Package retrieval composes the document loader, the embedding provider,
// and the vector store into the two operations external callers care about:
// indexing a document into the knowledge base and querying it.
package retrieval
