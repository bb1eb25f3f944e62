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


package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noemata/korpus/core"
)

// Config is the full application configuration.
type Config struct {
	Embedding     Embedding     `yaml:"embedding"`
	Chunking      Chunking      `yaml:"chunking"`
	Retrieval     Retrieval     `yaml:"retrieval"`
	KnowledgeBase KnowledgeBase `yaml:"knowledge_base"`
}

// Embedding configures the OpenAI-compatible embedding service.
type Embedding struct {
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BatchSize int    `yaml:"batch_size"`
}

// Chunking configures how segments are split into chunks.
type Chunking struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// Retrieval configures query-time defaults.
type Retrieval struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float32 `yaml:"score_threshold"`
}

// KnowledgeBase configures where indexed data lives on disk.
type KnowledgeBase struct {
	Path string `yaml:"path"`
}

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "korpus.yaml"

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Embedding: Embedding{
			Host:      "http://localhost:11434/v1",
			Model:     "embeddinggemma",
			BatchSize: 32,
		},
		Chunking: Chunking{
			ChunkSize:    500,
			ChunkOverlap: 50,
		},
		Retrieval: Retrieval{
			TopK:           5,
			ScoreThreshold: 0.0,
		},
		KnowledgeBase: KnowledgeBase{
			Path: "./korpus.db",
		},
	}
}

// Load reads the configuration file at path, overlaying it on the defaults.
// An absent file yields the defaults; a present but malformed or invalid
// file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrConfiguration, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", core.ErrConfiguration, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills zero values back in from the defaults and checks that the
// chunking and retrieval parameters are usable.
func (c *Config) Validate() error {
	defaults := Default()

	if c.Embedding.Host == "" {
		c.Embedding.Host = defaults.Embedding.Host
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaults.Embedding.Model
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = defaults.Embedding.BatchSize
	}
	if c.Chunking.ChunkSize == 0 {
		c.Chunking.ChunkSize = defaults.Chunking.ChunkSize
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = defaults.Retrieval.TopK
	}
	if c.KnowledgeBase.Path == "" {
		c.KnowledgeBase.Path = defaults.KnowledgeBase.Path
	}

	if err := core.ValidateChunking(c.Chunking.ChunkSize, c.Chunking.ChunkOverlap); err != nil {
		return err
	}
	if err := core.ValidateTopK(c.Retrieval.TopK); err != nil {
		return err
	}
	if c.Retrieval.ScoreThreshold < 0 || c.Retrieval.ScoreThreshold > 1 {
		return fmt.Errorf("%w: score_threshold must be within [0, 1], got %v",
			core.ErrConfiguration, c.Retrieval.ScoreThreshold)
	}
	return nil
}
