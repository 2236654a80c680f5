// Package file loads and saves the typed TOML configuration from the
// docent config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the whole configuration file.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Retry   RetryConfig   `toml:"retry"`
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Search  SearchConfig  `toml:"search"`
}

// AIConfig selects the model endpoints. The API key itself comes from
// the environment, never from the file.
type AIConfig struct {
	// BaseURL overrides the OpenAI-compatible endpoint.
	BaseURL string `toml:"base_url"`

	// ChatModel is the completion model.
	ChatModel string `toml:"chat_model"`

	// EmbeddingModel is the embedding model.
	EmbeddingModel string `toml:"embedding_model"`

	// RequestsPerSecond and BurstSize shape the client-side limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BurstSize         int     `toml:"burst_size"`
}

// RetryConfig shapes the backoff schedule, in seconds.
type RetryConfig struct {
	MaxRetries          int     `toml:"max_retries"`
	InitialDelaySeconds float64 `toml:"initial_delay_seconds"`
	MaxDelaySeconds     float64 `toml:"max_delay_seconds"`
	Base                float64 `toml:"base"`
}

// StorageConfig selects and locates the persistence backends.
type StorageConfig struct {
	// Backend is "file" or "sqlite" for metadata, cache and history.
	Backend string `toml:"backend"`

	// BlobBackend is "file" or "bolt" for full document bodies.
	BlobBackend string `toml:"blob_backend"`

	// DataDir overrides the data directory (default: ~/.docent/data).
	DataDir string `toml:"data_dir"`
}

// CacheConfig shapes the answer cache.
type CacheConfig struct {
	// TTLSeconds is the answer lifetime.
	TTLSeconds int `toml:"ttl_seconds"`
}

// HistoryConfig shapes conversation retention.
type HistoryConfig struct {
	// MaxPairs is how many question/answer pairs are retained per user.
	MaxPairs int `toml:"max_pairs"`

	// GenerationLimit is how many recent turns feed answer generation.
	GenerationLimit int `toml:"generation_limit"`
}

// SearchConfig shapes context assembly.
type SearchConfig struct {
	SummaryMaxChars     int `toml:"summary_max_chars"`
	SummarizeInputChars int `toml:"summarize_input_chars"`
	SmallDocChars       int `toml:"small_doc_chars"`
	ExtractChunkSize    int `toml:"extract_chunk_size"`
	ExtractMaxChunks    int `toml:"extract_max_chunks"`
	MaxDocTokens        int `toml:"max_doc_tokens"`
	MaxContextTokens    int `toml:"max_context_tokens"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		AI: AIConfig{
			ChatModel:         "gpt-4o-mini",
			EmbeddingModel:    "text-embedding-3-small",
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Retry: RetryConfig{
			MaxRetries:          3,
			InitialDelaySeconds: 1,
			MaxDelaySeconds:     30,
			Base:                2.0,
		},
		Storage: StorageConfig{
			Backend:     "file",
			BlobBackend: "file",
		},
		Cache:   CacheConfig{TTLSeconds: 3600},
		History: HistoryConfig{MaxPairs: 10, GenerationLimit: 6},
		Search: SearchConfig{
			SummaryMaxChars:     500,
			SummarizeInputChars: 16000,
			SmallDocChars:       5000,
			ExtractChunkSize:    1500,
			ExtractMaxChunks:    2,
			MaxDocTokens:        10000,
			MaxContextTokens:    60000,
		},
	}
}

// DefaultDir returns ~/.docent.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docent"), nil
}

// Load reads config.toml from configDir, filling every unset field
// with its default. A missing file yields the defaults.
func Load(configDir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the configuration to config.toml under configDir.
func Save(configDir string, cfg Config) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// fillDefaults replaces zero values with defaults so a sparse file
// still yields a usable configuration.
func (c *Config) fillDefaults() {
	def := Default()
	if c.AI.ChatModel == "" {
		c.AI.ChatModel = def.AI.ChatModel
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if c.AI.RequestsPerSecond <= 0 {
		c.AI.RequestsPerSecond = def.AI.RequestsPerSecond
	}
	if c.AI.BurstSize <= 0 {
		c.AI.BurstSize = def.AI.BurstSize
	}
	if c.Retry.MaxRetries <= 0 {
		c.Retry.MaxRetries = def.Retry.MaxRetries
	}
	if c.Retry.InitialDelaySeconds <= 0 {
		c.Retry.InitialDelaySeconds = def.Retry.InitialDelaySeconds
	}
	if c.Retry.MaxDelaySeconds <= 0 {
		c.Retry.MaxDelaySeconds = def.Retry.MaxDelaySeconds
	}
	if c.Retry.Base <= 1 {
		c.Retry.Base = def.Retry.Base
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.BlobBackend == "" {
		c.Storage.BlobBackend = def.Storage.BlobBackend
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
	if c.History.MaxPairs <= 0 {
		c.History.MaxPairs = def.History.MaxPairs
	}
	if c.History.GenerationLimit <= 0 {
		c.History.GenerationLimit = def.History.GenerationLimit
	}
	if c.Search.SummaryMaxChars <= 0 {
		c.Search.SummaryMaxChars = def.Search.SummaryMaxChars
	}
	if c.Search.SummarizeInputChars <= 0 {
		c.Search.SummarizeInputChars = def.Search.SummarizeInputChars
	}
	if c.Search.SmallDocChars <= 0 {
		c.Search.SmallDocChars = def.Search.SmallDocChars
	}
	if c.Search.ExtractChunkSize <= 0 {
		c.Search.ExtractChunkSize = def.Search.ExtractChunkSize
	}
	if c.Search.ExtractMaxChunks <= 0 {
		c.Search.ExtractMaxChunks = def.Search.ExtractMaxChunks
	}
	if c.Search.MaxDocTokens <= 0 {
		c.Search.MaxDocTokens = def.Search.MaxDocTokens
	}
	if c.Search.MaxContextTokens <= 0 {
		c.Search.MaxContextTokens = def.Search.MaxContextTokens
	}
}
