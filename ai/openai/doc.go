// Package openai implements ai.Embedder against any OpenAI-compatible
// embedding endpoint (OpenAI, Ollama, LocalAI, vLLM). The underlying client
// is created lazily on first use, so workflows that never embed pay no
// startup cost and need no reachable endpoint.
package openai
