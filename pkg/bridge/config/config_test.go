package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/internalerr"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Device != "cpu" {
		t.Errorf("Default device should be cpu, got %q", cfg.Device)
	}
	if cfg.BatchSize != 1 {
		t.Errorf("Default batch size should be 1, got %d", cfg.BatchSize)
	}
	if !cfg.CacheResults || cfg.CacheSize != 128 {
		t.Errorf("Default cache should be on with size 128, got %v/%d", cfg.CacheResults, cfg.CacheSize)
	}
	if cfg.AlignThreshold != 0.5 {
		t.Errorf("Default threshold should be 0.5, got %v", cfg.AlignThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestValidateDevice(t *testing.T) {
	valid := []string{"cpu", "cuda", "cuda:0", "cuda:3"}
	for _, d := range valid {
		cfg := Default()
		cfg.Device = d
		if err := cfg.Validate(); err != nil {
			t.Errorf("Device %q should be valid: %v", d, err)
		}
	}

	invalid := []string{"", "gpu", "cuda:", "cuda:-1", "cuda:x"}
	for _, d := range invalid {
		cfg := Default()
		cfg.Device = d
		err := cfg.Validate()
		if !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("Device %q should be rejected with ErrInvalidConfig, got %v", d, err)
		}
	}
}

func TestValidateRanges(t *testing.T) {
	cfg := Default()
	cfg.BatchSize = 0
	if !errors.Is(cfg.Validate(), internalerr.ErrInvalidConfig) {
		t.Error("Zero batch size should be rejected")
	}

	cfg = Default()
	cfg.CacheSize = -5
	if !errors.Is(cfg.Validate(), internalerr.ErrInvalidConfig) {
		t.Error("Negative cache size should be rejected")
	}

	cfg = Default()
	cfg.AlignThreshold = 1.5
	if !errors.Is(cfg.Validate(), internalerr.ErrInvalidConfig) {
		t.Error("Threshold above 1 should be rejected")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BRIDGENLP_DEVICE", "cuda:1")
	t.Setenv("BRIDGENLP_BATCH_SIZE", "8")
	t.Setenv("BRIDGENLP_COLLECT_METRICS", "true")
	t.Setenv("BRIDGENLP_CACHE_SIZE", "64")
	t.Setenv("BRIDGENLP_ALIGN_THRESHOLD", "0.7")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Device != "cuda:1" {
		t.Errorf("Expected device override, got %q", cfg.Device)
	}
	if cfg.BatchSize != 8 {
		t.Errorf("Expected batch size 8, got %d", cfg.BatchSize)
	}
	if !cfg.CollectMetrics {
		t.Error("Expected metrics enabled")
	}
	if cfg.CacheSize != 64 {
		t.Errorf("Expected cache size 64, got %d", cfg.CacheSize)
	}
	if cfg.AlignThreshold != 0.7 {
		t.Errorf("Expected threshold 0.7, got %v", cfg.AlignThreshold)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model_type: sentiment
model_name: test-model
device: cuda
batch_size: 4
collect_metrics: true
cache_size: 32
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ModelType != "sentiment" || cfg.ModelName != "test-model" {
		t.Errorf("Unexpected model fields: %+v", cfg)
	}
	if cfg.Device != "cuda" || cfg.BatchSize != 4 || cfg.CacheSize != 32 {
		t.Errorf("Unexpected option fields: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.AlignThreshold != 0.5 {
		t.Errorf("Unset threshold should default to 0.5, got %v", cfg.AlignThreshold)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("device: warp-drive\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Invalid device should fail loudly, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Missing file should return an error")
	}
}
