package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment keys that override the YAML config.
const (
	EnvIndexDir     = "CHROMA_INDEX_DIR"
	EnvWorkers      = "CHROMA_WORKERS"
	EnvMaxDimension = "CHROMA_MAX_DIMENSION"
)

// Config is the in-memory representation of ~/.chroma/chroma.yaml.
type Config struct {
	IndexDir         string   `yaml:"index_dir"`
	Roots            []string `yaml:"roots,omitempty"`
	Extensions       []string `yaml:"extensions,omitempty"`
	Excludes         []string `yaml:"excludes,omitempty"`
	Workers          int      `yaml:"workers"`
	MaxDimension     int      `yaml:"max_dimension"`
	HistogramMetric  string   `yaml:"histogram_metric,omitempty"`
	DefaultThreshold float64  `yaml:"default_threshold"`
	LegacyFormat     bool     `yaml:"legacy_format"`
}

// ChromaDir returns the absolute path to ~/.chroma/.
func ChromaDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".chroma"), nil
}

// ConfigPath returns the absolute path to ~/.chroma/chroma.yaml.
func ConfigPath() (string, error) {
	dir, err := ChromaDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chroma.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the default Config written on first chroma init.
func DefaultConfig() (*Config, error) {
	dir, err := ChromaDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		IndexDir:   filepath.Join(dir, "indexes"),
		Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"},
		Excludes: []string{
			".git/",
			"node_modules/",
			".DS_Store",
			"Thumbs.db",
			"*.tmp",
		},
		HistogramMetric:  "bhattacharyya",
		DefaultThreshold: 0.5,
	}, nil
}

// Load reads and parses ~/.chroma/chroma.yaml, then applies environment
// overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing config file yields the
// defaults (with environment overrides) instead of an error.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg, err = DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	if err := applyEnv(cfg); err != nil {
		return err
	}
	var err error
	cfg.IndexDir, err = ExpandPath(cfg.IndexDir)
	if err != nil {
		return err
	}
	for i, r := range cfg.Roots {
		if cfg.Roots[i], err = ExpandPath(r); err != nil {
			return err
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", cfg.Workers)
	}
	if cfg.MaxDimension < 0 {
		return fmt.Errorf("max_dimension must not be negative: %d", cfg.MaxDimension)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, err := GetConfigValue(EnvIndexDir); err != nil {
		return err
	} else if v != "" {
		cfg.IndexDir = v
	}
	for key, dst := range map[string]*int{EnvWorkers: &cfg.Workers, EnvMaxDimension: &cfg.MaxDimension} {
		v, err := GetConfigValue(key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Save marshals cfg and writes it to ~/.chroma/chroma.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
