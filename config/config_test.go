package config

import (
	"os"
	"path/filepath"
	"testing"

	"textsplit/internal/adapter/cache"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Split.SplitBy != "word" {
		t.Errorf("expected SplitBy=word, got %s", cfg.Split.SplitBy)
	}
	if cfg.Split.ChunkSize != 200 {
		t.Errorf("expected ChunkSize=200, got %d", cfg.Split.ChunkSize)
	}
	if cfg.Split.ChunkOverlap != 20 {
		t.Errorf("expected ChunkOverlap=20, got %d", cfg.Split.ChunkOverlap)
	}
	if cfg.Split.Tokenizer != "lexical" {
		t.Errorf("expected Tokenizer=lexical, got %s", cfg.Split.Tokenizer)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected Format=json, got %s", cfg.Output.Format)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "textsplit.yaml")

	content := `
split:
  split_by: token
  chunk_size: 5
  chunk_overlap: 0
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Split.SplitBy != "token" {
		t.Errorf("expected SplitBy=token, got %s", cfg.Split.SplitBy)
	}
	if cfg.Split.ChunkSize != 5 {
		t.Errorf("expected ChunkSize=5, got %d", cfg.Split.ChunkSize)
	}
	if cfg.Split.ChunkOverlap != 0 {
		t.Errorf("expected ChunkOverlap=0, got %d", cfg.Split.ChunkOverlap)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
	// untouched sections keep their defaults
	if cfg.Split.Tokenizer != "lexical" {
		t.Errorf("expected Tokenizer=lexical, got %s", cfg.Split.Tokenizer)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "textsplit.yaml")
	if err := os.WriteFile(configPath, []byte("split: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "textsplit.yaml")

	content := `
output:
  format: yaml
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected Format=yaml, got %s", cfg.Output.Format)
	}
}

func TestLoadFromDir_HiddenConfig(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	content := "split:\n  chunk_size: 42\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".textsplit", "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Split.ChunkSize != 42 {
		t.Errorf("expected ChunkSize=42, got %d", cfg.Split.ChunkSize)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := DefaultConfig()
	cfg.Split.ChunkSize = 64
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Split.ChunkSize != 64 {
		t.Errorf("expected ChunkSize=64, got %d", loaded.Split.ChunkSize)
	}
}

func TestStoreDBPath(t *testing.T) {
	path := StoreDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".textsplit", "chunks.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestSplitterConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Split.SplitBy = "token"
	cfg.Split.ChunkSize = 5
	cfg.Split.ChunkOverlap = 1

	sc, err := cfg.SplitterConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Tokenizer == nil || sc.Tokenizer.Name() != "lexical" {
		t.Errorf("expected lexical tokenizer, got %v", sc.Tokenizer)
	}
	if sc.ChunkSize != 5 || sc.ChunkOverlap != 1 {
		t.Errorf("unexpected window %d/%d", sc.ChunkSize, sc.ChunkOverlap)
	}

	if _, ok := sc.Tokenizer.(*cache.CachedTokenizer); !ok {
		t.Errorf("expected cached tokenizer, got %T", sc.Tokenizer)
	}

	cfg.Split.TokenCacheSize = 0
	sc, err = cfg.SplitterConfig()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sc.Tokenizer.(*cache.CachedTokenizer); ok {
		t.Error("expected uncached tokenizer with token_cache_size 0")
	}

	cfg.Split.Tokenizer = "nope"
	if _, err := cfg.SplitterConfig(); err == nil {
		t.Error("expected error for unknown tokenizer")
	}
}
