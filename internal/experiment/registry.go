package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/metrics"
)

// IntegratorFactory builds a named integrator over parts.
type IntegratorFactory func(parts *dynamo.Particles, cfg *config.Config, opts ...integrators.Option) (dynamo.Integrator, error)

type Registry struct {
	integrators map[string]IntegratorFactory
	topologies  map[string]TopologyFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]IntegratorFactory),
		topologies:  make(map[string]TopologyFunc),
	}

	r.integrators["verlet"] = func(parts *dynamo.Particles, cfg *config.Config, opts ...integrators.Option) (dynamo.Integrator, error) {
		return integrators.NewTwoStepVelVerlet(parts, cfg.Params(), cfg.Temperature, opts...), nil
	}
	r.integrators["brownian"] = func(parts *dynamo.Particles, cfg *config.Config, opts ...integrators.Option) (dynamo.Integrator, error) {
		b, err := integrators.NewBrownianEulerMaruyama(parts, cfg.Params(), cfg.Temperature, cfg.Brownian.Viscosity, cfg.Brownian.Radius, opts...)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	r.topologies["dimer"] = Dimer
	r.topologies["chain"] = Chain
	r.topologies["ring"] = Ring
	r.topologies["trimer"] = Trimer
	r.topologies["dimers"] = Dimers
	r.topologies["gas"] = Gas

	return r
}

func (r *Registry) RegisterTopology(name string, fn TopologyFunc) { r.topologies[name] = fn }

func (r *Registry) GetIntegrator(name string) (IntegratorFactory, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn, nil
}

func (r *Registry) GetTopology(name string) (TopologyFunc, error) {
	fn, ok := r.topologies[name]
	if !ok {
		return nil, fmt.Errorf("unknown topology: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListTopologies() []string  { return sortedKeys(r.topologies) }

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewMeanEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMeanTemperature(),
		metrics.NewStability(1e6),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
