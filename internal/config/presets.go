package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"dimer": {
		N: 2, Dt: 0.001, Steps: 10000, Integrator: "verlet", Topology: "dimer", Seed: 1,
		Bond:   BondConfig{K: 10, R0: 1},
		Output: OutputConfig{WriteEvery: 100, MeasureEvery: 10, Async: true},
	},
	"chain": {
		N: 64, Dt: 0.001, Steps: 20000, Temperature: 0.5, Integrator: "verlet", Topology: "chain", Seed: 1,
		Bond:   BondConfig{K: 50, R0: 1},
		Output: OutputConfig{WriteEvery: 200, MeasureEvery: 20, Async: true},
	},
	"ring": {
		N: 32, Box: 20, Dt: 0.001, Steps: 20000, Temperature: 0.2, Integrator: "verlet", Topology: "ring", Seed: 1,
		Bond:   BondConfig{K: 20, R0: 1, Kspring: 5, Theta0: math.Pi * 15 / 16},
		Output: OutputConfig{WriteEvery: 200, MeasureEvery: 20, Async: true},
	},
	"gas": {
		N: 512, Box: 10, Dt: 0.005, Steps: 5000, Temperature: 1, Integrator: "brownian", Topology: "dimers", Seed: 1,
		Bond:     BondConfig{K: 10, R0: 1},
		Brownian: BrownianConfig{Viscosity: 1, Radius: 0.5},
		Output:   OutputConfig{WriteEvery: 100, MeasureEvery: 10, Async: true},
	},
	"trimer": {
		N: 3, Dt: 0.001, Steps: 10000, Temperature: 0.1, Integrator: "verlet", Topology: "trimer", Seed: 1,
		Bond:   BondConfig{K: 10, R0: 1, Kspring: 5, Theta0: 2 * math.Pi / 3},
		Output: OutputConfig{WriteEvery: 100, MeasureEvery: 10, Async: true},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
