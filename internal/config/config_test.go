package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mdsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "verlet" {
		t.Errorf("expected integrator verlet, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dimer")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.N != 2 || cfg.Bond.K != 10 {
		t.Errorf("unexpected dimer preset: %+v", cfg)
	}

	cfg.N = 99
	if Presets["dimer"].N != 2 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero particles", func(c *Config) { c.N = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"negative write interval", func(c *Config) { c.Output.WriteEvery = -1 }},
		{"no integrator", func(c *Config) { c.Integrator = "" }},
		{"brownian without viscosity", func(c *Config) { c.Integrator = "brownian"; c.Brownian.Viscosity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("ring")
	cfg.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("n: 10\ntemperature: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.N != 10 || cfg.Temperature != 2 || cfg.Dt != DefaultDt {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
