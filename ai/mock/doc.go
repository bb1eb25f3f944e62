// Package mock provides a deterministic ai.Embedder test double that needs
// no running model server.
package mock
