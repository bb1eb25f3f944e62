package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noemata/korpus/core"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "embeddinggemma", cfg.Model)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.Empty(t, cfg.APIKeyEnv)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:8080"),
		WithModel("text-embedding-3-small"),
		WithAPIKeyEnv("OPENAI_API_KEY"),
		WithBatchSize(64),
	)
	assert.Equal(t, "http://models.internal:8080", cfg.Host)
	assert.Equal(t, "text-embedding-3-small", cfg.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.APIKeyEnv)
	assert.Equal(t, 64, cfg.BatchSize)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already canonical", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty host untouched", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.Host)
		})
	}

	t.Run("zero batch size gets default", func(t *testing.T) {
		cfg := &Config{Host: "http://h/v1", BatchSize: 0}
		cfg.Normalize()
		assert.Equal(t, 32, cfg.BatchSize)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("complete config passes", func(t *testing.T) {
		cfg := NewConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing host fails", func(t *testing.T) {
		cfg := &Config{Model: "m"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("missing model fails", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("validate normalizes the host", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434", Model: "m"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})
}
