package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvEmbeddingsAPIKey     = "FOUNDRY_EMBEDDINGS_API_KEY"
	EnvEmbeddingsModel      = "FOUNDRY_EMBEDDINGS_MODEL"
	EnvEmbeddingsDimensions = "FOUNDRY_EMBEDDINGS_DIMENSIONS"

	// EnvGeminiAPIKey is honored as a fallback so the standard Gemini
	// credential works without Foundry-specific configuration.
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// EmbeddingsConfig holds settings for the Gemini embedding client used by
// the knowledge base.
type EmbeddingsConfig struct {
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EmbeddingsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EmbeddingsConfig) Merge(overlay *EmbeddingsConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Dimensions != 0 {
		c.Dimensions = overlay.Dimensions
	}
}

func (c *EmbeddingsConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-embedding-001"
	}
	if c.Dimensions == 0 {
		c.Dimensions = 768
	}
}

func (c *EmbeddingsConfig) loadEnv() {
	if v := os.Getenv(EnvEmbeddingsAPIKey); v != "" {
		c.APIKey = v
	} else if v := os.Getenv(EnvGeminiAPIKey); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvEmbeddingsModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvEmbeddingsDimensions); v != "" {
		if dims, err := strconv.Atoi(v); err == nil {
			c.Dimensions = dims
		}
	}
}

func (c *EmbeddingsConfig) validate() error {
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.Dimensions < 1 {
		return fmt.Errorf("invalid dimensions: %d", c.Dimensions)
	}
	return nil
}
