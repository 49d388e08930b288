package automation

import (
	"fmt"
	"sort"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
)

var tunables = map[string]func(*config.Config, float64){
	"n":           func(c *config.Config, v float64) { c.N = int(v) },
	"steps":       func(c *config.Config, v float64) { c.Steps = int(v) },
	"dt":          func(c *config.Config, v float64) { c.Dt = v },
	"box":         func(c *config.Config, v float64) { c.Box = v },
	"temperature": func(c *config.Config, v float64) { c.Temperature = v },
	"k":           func(c *config.Config, v float64) { c.Bond.K = v },
	"r0":          func(c *config.Config, v float64) { c.Bond.R0 = v },
	"kspring":     func(c *config.Config, v float64) { c.Bond.Kspring = v },
	"theta0":      func(c *config.Config, v float64) { c.Bond.Theta0 = v },
	"viscosity":   func(c *config.Config, v float64) { c.Brownian.Viscosity = v },
	"radius":      func(c *config.Config, v float64) { c.Brownian.Radius = v },
}

// SetParam assigns the named numeric field of cfg.
func SetParam(cfg *config.Config, name string, value float64) error {
	set, ok := tunables[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q (available: %v)", dynamo.ErrInvalidParams, name, Params())
	}
	set(cfg, value)
	return nil
}

// Params lists the names SetParam accepts.
func Params() []string {
	names := make([]string, 0, len(tunables))
	for name := range tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedParams(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
