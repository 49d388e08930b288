package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/gologme/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/sim"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset, or the default config, and overrides
// whatever it names.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Topology   string             `yaml:"topology"`
	Integrator string             `yaml:"integrator"`
	Steps      int                `yaml:"steps"`
	Replicas   int                `yaml:"replicas"`
	Params     map[string]float64 `yaml:"params"`
}

// StepResult holds one result per replica of a scenario step.
type StepResult struct {
	Name    string
	Config  *config.Config
	Results []*sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Config resolves the step's run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", dynamo.ErrInvalidParams, s.Preset)
		}
	}
	if s.Topology != "" {
		cfg.Topology = s.Topology
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	for _, name := range sortedParams(s.Params) {
		if err := SetParam(cfg, name, s.Params[name]); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Infof("scenario %s: step %d/%d (%s)", scenario.Name, i+1, len(scenario.Steps), name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := RunReplicas(ctx, cfg, max(step.Replicas, 1), 0, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, StepResult{Name: name, Config: cfg, Results: res})
	}
	return results, nil
}

// RunReplicas runs independent copies of cfg with consecutive seeds starting
// at cfg.Seed. Nothing is written to disk.
func RunReplicas(ctx context.Context, cfg *config.Config, replicas, limit int, logger *log.Logger) ([]*sim.Result, error) {
	base := *cfg
	base.Output.WriteEvery = 0
	runCfg := experiment.New(&base, logger).RunConfig()

	ens := sim.NewEnsemble(func(replica int, seed int64) (*sim.Driver, error) {
		c := base
		c.Seed = seed
		return experiment.New(&c, logger).Build()
	}, replicas, base.Seed)
	ens.SetLimit(limit)
	return ens.Run(ctx, runCfg)
}

// Stable reports whether every sample of a run stayed finite and bounded.
func Stable(r *sim.Result) bool {
	v, ok := r.Metrics["stability"]
	return ok && v == 1 && len(r.Faults) == 0
}
