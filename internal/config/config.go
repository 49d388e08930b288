package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/dynamo"
)

const (
	DefaultN            = 2
	DefaultDt           = 0.001
	DefaultSteps        = 10000
	DefaultBondK        = 10.0
	DefaultBondR0       = 1.0
	DefaultWriteEvery   = 100
	DefaultMeasureEvery = 10
	DefaultViscosity    = 1.0
	DefaultRadius       = 0.5
)

type Config struct {
	N           int     `yaml:"n"`
	Box         float64 `yaml:"box"`
	Rcut        float64 `yaml:"rcut"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	Temperature float64 `yaml:"temperature"`
	Seed        int64   `yaml:"seed"`
	Integrator  string  `yaml:"integrator"`

	// Topology names a generator; Bonds, ThreeBonds and InitFile override
	// the generated bonds and positions.
	Topology   string `yaml:"topology"`
	Bonds      string `yaml:"bonds,omitempty"`
	ThreeBonds string `yaml:"three_bonds,omitempty"`
	InitFile   string `yaml:"init_file,omitempty"`

	Bond     BondConfig     `yaml:"bond"`
	Brownian BrownianConfig `yaml:"brownian"`
	Output   OutputConfig   `yaml:"output"`

	Workers     int    `yaml:"workers"`
	CheckFinite bool   `yaml:"check_finite"`
	LogLevel    string `yaml:"log_level"`
}

// BondConfig holds the spring constants used by generated topologies.
type BondConfig struct {
	K       float64 `yaml:"k"`
	R0      float64 `yaml:"r0"`
	Kspring float64 `yaml:"kspring"`
	Theta0  float64 `yaml:"theta0"`
}

type BrownianConfig struct {
	Viscosity float64 `yaml:"viscosity"`
	Radius    float64 `yaml:"radius"`
}

type OutputConfig struct {
	WriteEvery   int  `yaml:"write_every"`
	MeasureEvery int  `yaml:"measure_every"`
	Async        bool `yaml:"async"`
}

func DefaultConfig() *Config {
	return &Config{
		N:           DefaultN,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Temperature: 0,
		Seed:        1,
		Integrator:  "verlet",
		Topology:    "dimer",
		Bond: BondConfig{
			K:  DefaultBondK,
			R0: DefaultBondR0,
		},
		Brownian: BrownianConfig{
			Viscosity: DefaultViscosity,
			Radius:    DefaultRadius,
		},
		Output: OutputConfig{
			WriteEvery:   DefaultWriteEvery,
			MeasureEvery: DefaultMeasureEvery,
			Async:        true,
		},
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params returns the simulation parameters shared by every component.
func (c *Config) Params() dynamo.Params {
	return dynamo.Params{N: c.N, L: c.Box, Rcut: c.Rcut, Dt: c.Dt}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	switch {
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidParams, c.Steps)
	case c.Temperature < 0:
		return fmt.Errorf("%w: temperature must be non-negative, got %f", dynamo.ErrInvalidParams, c.Temperature)
	case c.Output.WriteEvery < 0 || c.Output.MeasureEvery < 0:
		return fmt.Errorf("%w: output intervals must be non-negative", dynamo.ErrInvalidParams)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be non-negative, got %d", dynamo.ErrInvalidParams, c.Workers)
	case c.Integrator == "":
		return fmt.Errorf("%w: integrator not set", dynamo.ErrInvalidParams)
	}
	if c.Integrator == "brownian" && (c.Brownian.Viscosity <= 0 || c.Brownian.Radius <= 0) {
		return fmt.Errorf("%w: brownian viscosity and radius must be positive", dynamo.ErrInvalidParams)
	}
	return nil
}
