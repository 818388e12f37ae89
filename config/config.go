package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"textsplit/internal/adapter/analyzer"
	"textsplit/internal/adapter/cache"
	"textsplit/internal/adapter/chunker"
	"textsplit/internal/domain"
)

// Config holds all configuration for textsplit.
type Config struct {
	Split   SplitConfig   `yaml:"split"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SplitConfig holds chunking configuration.
type SplitConfig struct {
	SplitBy      string `yaml:"split_by"` // "word", "token", "sentence", "passage", "page"
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	Tokenizer    string `yaml:"tokenizer"` // "lexical", "cl100k_base", "p50k_base", "r50k_base"
	Workers      int    `yaml:"workers"`   // 0 = GOMAXPROCS
	KeepMetaData bool   `yaml:"keep_metadata"`

	// TokenCacheSize is how many encoded texts token mode remembers. 0 disables the cache.
	TokenCacheSize int `yaml:"token_cache_size"`
}

// InputConfig selects which files are split.
type InputConfig struct {
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`
}

// OutputConfig holds output configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "json", "yaml", "text"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Split: SplitConfig{
			SplitBy:      "word",
			ChunkSize:    200,
			ChunkOverlap: 20,
			Tokenizer:    "lexical",
			Workers:      0,
			KeepMetaData: false,

			TokenCacheSize: 256,
		},
		Input: InputConfig{
			Includes:     []string{"**/*.txt", "**/*.md", "**/*.rst", "**/*.adoc", "**/*.html", "**/*.csv", "**/*.json", "**/*.yaml", "**/*.yml"},
			Excludes:     []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/dist/**", "**/build/**", "**/.textsplit/**"},
			MaxFileBytes: 10 << 20,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SplitterConfig maps the split section onto a chunker configuration,
// loading the tokenizer when token mode needs one.
func (c *Config) SplitterConfig() (chunker.Config, error) {
	sc := chunker.Config{
		SplitBy:      domain.SplitBy(c.Split.SplitBy),
		ChunkSize:    c.Split.ChunkSize,
		ChunkOverlap: c.Split.ChunkOverlap,
		Workers:      c.Split.Workers,
		KeepMetaData: c.Split.KeepMetaData,
	}
	if sc.SplitBy == domain.SplitByToken {
		tok, err := analyzer.NewTokenizer(c.Split.Tokenizer)
		if err != nil {
			return chunker.Config{}, fmt.Errorf("failed to create tokenizer: %w", err)
		}
		sc.Tokenizer = tok
		if c.Split.TokenCacheSize > 0 {
			sc.Tokenizer = cache.NewCachedTokenizer(tok, cache.NewTokenCache(c.Split.TokenCacheSize))
		}
	}
	return sc, nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for textsplit.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "textsplit.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".textsplit", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the path to the chunk database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".textsplit", "chunks.db")
}

// EnsureDataDir ensures the .textsplit directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".textsplit"), 0755)
}
