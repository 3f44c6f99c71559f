package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrDefault_NoConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvIndexDir, "")
	t.Setenv(EnvWorkers, "")
	t.Setenv(EnvMaxDimension, "")

	cfg, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.IndexDir != filepath.Join(home, ".chroma", "indexes") {
		t.Fatalf("unexpected index dir: %q", cfg.IndexDir)
	}
	if cfg.DefaultThreshold != 0.5 || cfg.HistogramMetric != "bhattacharyya" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("Load should fail without a config file")
	}
}

func TestLoad_YAMLAndOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvIndexDir, "")
	t.Setenv(EnvMaxDimension, "")

	dir := filepath.Join(home, ".chroma")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	yml := "index_dir: ~/shards\nroots: [~/pics]\nworkers: 2\ndefault_threshold: 0.8\nlegacy_format: true\n"
	if err := os.WriteFile(filepath.Join(dir, "chroma.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CHROMA_MAX_DIMENSION=512\nCHROMA_WORKERS=3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvWorkers, "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IndexDir != filepath.Join(home, "shards") {
		t.Fatalf("index_dir not expanded: %q", cfg.IndexDir)
	}
	if len(cfg.Roots) != 1 || cfg.Roots[0] != filepath.Join(home, "pics") {
		t.Fatalf("roots not expanded: %v", cfg.Roots)
	}
	if cfg.Workers != 6 {
		t.Fatalf("env should override .env and yaml, got workers=%d", cfg.Workers)
	}
	if cfg.MaxDimension != 512 {
		t.Fatalf(".env should override yaml, got max_dimension=%d", cfg.MaxDimension)
	}
	if cfg.DefaultThreshold != 0.8 || !cfg.LegacyFormat {
		t.Fatalf("yaml values lost: %+v", cfg)
	}
	if len(cfg.Extensions) == 0 {
		t.Fatalf("defaults not kept for fields missing from yaml")
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvWorkers, "many")
	if _, err := LoadOrDefault(); err == nil {
		t.Fatalf("expected error for non-numeric %s", EnvWorkers)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvIndexDir, "")
	t.Setenv(EnvWorkers, "")
	t.Setenv(EnvMaxDimension, "")
	if err := os.MkdirAll(filepath.Join(home, ".chroma"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.HistogramMetric = "mdpa"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HistogramMetric != "mdpa" || got.IndexDir != cfg.IndexDir {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
