// Copyright 2026 Noemata Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"fmt"
	"strings"

	"github.com/noemata/korpus/core"
)

// Config holds configuration for embedding providers.
type Config struct {
	// Host is the base URL of the OpenAI-compatible embedding service.
	// Example: "http://localhost:11434/v1" for a local Ollama server.
	Host string

	// Model is the embedding model identifier.
	// Example: "embeddinggemma", "text-embedding-3-small". Multilingual
	// models are expected; the engine never inspects the language of input.
	Model string

	// APIKeyEnv names the environment variable holding the API key.
	// Empty means no key is required (local services).
	APIKeyEnv string

	// BatchSize is the maximum number of texts sent per embedding request.
	// Default: 32.
	BatchSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) { c.Host = host }
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) { c.Model = model }
}

// WithAPIKeyEnv sets the environment variable consulted for the API key.
func WithAPIKeyEnv(name string) ConfigOption {
	return func(c *Config) { c.APIKeyEnv = name }
}

// WithBatchSize sets the per-request batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) { c.BatchSize = size }
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:      "http://localhost:11434/v1",
		Model:     "embeddinggemma",
		BatchSize: 32,
	}
}

// NewConfig creates a Config with default values and applies the options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in canonical form, adding the /v1
// suffix most OpenAI-compatible APIs (Ollama, LocalAI, vLLM) require.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
}

// Validate checks that the configuration is complete. It normalizes first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return fmt.Errorf("%w: embedding host is required", core.ErrConfiguration)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: embedding model is required", core.ErrConfiguration)
	}
	return nil
}
