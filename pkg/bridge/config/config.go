// Package config holds the recognized adapter and pipeline options.
// Invalid values fail loudly at construction time; that is the one place
// this layer raises instead of degrading, since a bad option is programmer
// error rather than runtime data variance.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/internalerr"
)

// Config is the full option record. The core reads only CollectMetrics,
// CacheResults, CacheSize and AlignThreshold; the rest belongs to adapters.
type Config struct {
	ModelType      string         `yaml:"model_type"`
	ModelName      string         `yaml:"model_name"`
	Device         string         `yaml:"device"`
	BatchSize      int            `yaml:"batch_size"`
	CollectMetrics bool           `yaml:"collect_metrics"`
	CacheResults   bool           `yaml:"cache_results"`
	CacheSize      int            `yaml:"cache_size"`
	AlignThreshold float64        `yaml:"align_threshold"`
	Params         map[string]any `yaml:"params"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Device:         "cpu",
		BatchSize:      1,
		CacheResults:   true,
		CacheSize:      128,
		AlignThreshold: 0.5,
	}
}

// Load reads a YAML config file, applies environment overrides on top,
// and validates the combined record.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BRIDGENLP_* environment variables:
// MODEL_TYPE, MODEL_NAME, DEVICE, BATCH_SIZE, COLLECT_METRICS,
// CACHE_RESULTS, CACHE_SIZE, ALIGN_THRESHOLD.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv("BRIDGENLP_MODEL_TYPE"); ok {
		c.ModelType = v
	}
	if v, ok := os.LookupEnv("BRIDGENLP_MODEL_NAME"); ok {
		c.ModelName = v
	}
	if v, ok := os.LookupEnv("BRIDGENLP_DEVICE"); ok {
		c.Device = v
	}
	if v, ok := os.LookupEnv("BRIDGENLP_BATCH_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchSize = n
		}
	}
	if v, ok := os.LookupEnv("BRIDGENLP_COLLECT_METRICS"); ok {
		c.CollectMetrics = parseBool(v)
	}
	if v, ok := os.LookupEnv("BRIDGENLP_CACHE_RESULTS"); ok {
		c.CacheResults = parseBool(v)
	}
	if v, ok := os.LookupEnv("BRIDGENLP_CACHE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
	if v, ok := os.LookupEnv("BRIDGENLP_ALIGN_THRESHOLD"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.AlignThreshold = f
		}
	}
}

// Validate checks every recognized option and returns a wrapped
// internalerr.ErrInvalidConfig on the first violation.
func (c Config) Validate() error {
	if !validDevice(c.Device) {
		return fmt.Errorf("%w: unrecognized device %q", internalerr.ErrInvalidConfig, c.Device)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", internalerr.ErrInvalidConfig, c.BatchSize)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: cache_size must be positive, got %d", internalerr.ErrInvalidConfig, c.CacheSize)
	}
	if c.AlignThreshold < 0 || c.AlignThreshold > 1 {
		return fmt.Errorf("%w: align_threshold must be in [0,1], got %v", internalerr.ErrInvalidConfig, c.AlignThreshold)
	}
	return nil
}

// validDevice accepts "cpu", "cuda", or "cuda:N".
func validDevice(device string) bool {
	if device == "cpu" || device == "cuda" {
		return true
	}
	if rest, ok := strings.CutPrefix(device, "cuda:"); ok {
		n, err := strconv.Atoi(rest)
		return err == nil && n >= 0
	}
	return false
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
