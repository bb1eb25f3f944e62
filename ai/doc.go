// Package ai defines the embedding contract used by indexing and retrieval,
// plus the configuration shared by its implementations. The production
// implementation lives in ai/openai; a deterministic test double lives in
// ai/mock.
package ai
