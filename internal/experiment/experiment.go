package experiment

import (
	"fmt"
	"math/rand"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/interactors"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/storage"
)

// Experiment turns a config into a ready-to-run driver.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	log      *log.Logger
	backend  compute.Backend
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = dynamo.DiscardLogger()
	}
	backend := compute.GetBackend()
	if cfg.Workers > 0 {
		backend = compute.NewCPUBackend(cfg.Workers)
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		log:      logger,
		backend:  backend,
	}
}

func (e *Experiment) Registry() *Registry { return e.registry }

// RunConfig derives the driver loop settings from the config.
func (e *Experiment) RunConfig() sim.Config {
	return sim.Config{
		Steps:        e.cfg.Steps,
		WriteEvery:   e.cfg.Output.WriteEvery,
		MeasureEvery: e.cfg.Output.MeasureEvery,
		Async:        e.cfg.Output.Async,
	}
}

// Build generates or loads the starting configuration, constructs the bonded
// interactors and the integrator, and wires them into a driver. Extra
// integrator options (a snapshot writer, typically) are applied last.
func (e *Experiment) Build(opts ...integrators.Option) (*sim.Driver, error) {
	cfg := *e.cfg
	var initial []dynamo.Vec4
	if cfg.InitFile != "" {
		pos, err := storage.ReadPositionFile(cfg.InitFile)
		if err != nil {
			return nil, err
		}
		initial = pos
		cfg.N = len(pos)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	topo, err := e.topology(&cfg, initial)
	if err != nil {
		return nil, err
	}
	params := cfg.Params()
	parts := dynamo.NewParticlesFrom(topo.Positions)
	if parts.N() != params.N {
		return nil, fmt.Errorf("%w: topology produced %d particles, expected %d", dynamo.ErrInvalidParams, parts.N(), params.N)
	}

	factory, err := e.registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	integOpts := append([]integrators.Option{
		integrators.WithBackend(e.backend),
		integrators.WithLogger(e.log),
		integrators.WithSeed(cfg.Seed),
		integrators.WithFiniteCheck(cfg.CheckFinite),
	}, opts...)
	integ, err := factory(parts, &cfg, integOpts...)
	if err != nil {
		return nil, err
	}

	d, err := sim.New(parts, params, integ, e.log)
	if err != nil {
		return nil, err
	}
	if err := e.addBonded(d, parts, params, &cfg, topo); err != nil {
		return nil, err
	}
	for _, m := range e.registry.DefaultMetrics() {
		d.AddMetric(m)
	}

	e.log.Infof("built %s run: %d particles, box %g, dt %g, backend %s", cfg.Integrator, params.N, params.L, params.Dt, e.backend.Name())
	return d, nil
}

// topology generates the starting configuration, then replaces positions,
// bonds and three-body terms with any that come from files.
func (e *Experiment) topology(cfg *config.Config, initial []dynamo.Vec4) (*Topology, error) {
	var topo *Topology
	if initial != nil && cfg.Topology == "" {
		topo = &Topology{}
	} else {
		gen, err := e.registry.GetTopology(cfg.Topology)
		if err != nil {
			return nil, err
		}
		if topo, err = gen(cfg, rand.New(rand.NewSource(cfg.Seed))); err != nil {
			return nil, err
		}
	}

	if initial != nil {
		topo.Positions = initial
	}
	if cfg.Bonds != "" {
		bonds, err := interactors.ReadBondFile(cfg.Bonds)
		if err != nil {
			return nil, err
		}
		topo.Bonds = bonds
	}
	if cfg.ThreeBonds != "" {
		tb, err := interactors.ReadThreeBondFile(cfg.ThreeBonds)
		if err != nil {
			return nil, err
		}
		topo.ThreeBonds = tb
	}
	return topo, nil
}

func (e *Experiment) addBonded(d *sim.Driver, parts *dynamo.Particles, params dynamo.Params, cfg *config.Config, topo *Topology) error {
	opts := []interactors.Option{
		interactors.WithBackend(e.backend),
		interactors.WithLogger(e.log),
	}
	if len(topo.Bonds) > 0 {
		bf, err := interactors.NewBondedForces(parts, params, topo.Bonds, opts...)
		if err != nil {
			return err
		}
		e.log.Infof("%d two-body bonds", bf.NumBonds())
		d.AddInteractor(bf)
	}
	if len(topo.ThreeBonds) > 0 {
		tb, err := interactors.NewThreeBondedForces(parts, params, topo.ThreeBonds, opts...)
		if err != nil {
			return err
		}
		e.log.Infof("%d three-body terms", tb.NumBonds())
		d.AddInteractor(tb)
	}
	return nil
}
