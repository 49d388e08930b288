package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/metrics"
)

// Driver is the composition root of a run: it owns the particles and wires
// interactors into the integrator.
type Driver struct {
	parts       *dynamo.Particles
	params      dynamo.Params
	integrator  dynamo.Integrator
	interactors []dynamo.Interactor
	metrics     []dynamo.Metric
	observers   []Observer
	log         *log.Logger
}

// New returns a driver for parts. params.N must match the particle count, since
// temperatures are measured against it.
func New(parts *dynamo.Particles, params dynamo.Params, integrator dynamo.Integrator, logger *log.Logger) (*Driver, error) {
	if parts.N() != params.N {
		return nil, fmt.Errorf("%w: params.N is %d but there are %d particles", dynamo.ErrInvalidParams, params.N, parts.N())
	}
	if logger == nil {
		logger = dynamo.DiscardLogger()
	}
	return &Driver{
		parts:      parts,
		params:     params,
		integrator: integrator,
		log:        logger,
	}, nil
}

// AddInteractor registers it with the integrator and includes it in measurements.
func (d *Driver) AddInteractor(it dynamo.Interactor) {
	d.interactors = append(d.interactors, it)
	d.integrator.AddInteractor(it)
}

func (d *Driver) AddMetric(m dynamo.Metric)        { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer)           { d.observers = append(d.observers, o) }
func (d *Driver) Particles() *dynamo.Particles     { return d.parts }
func (d *Driver) Params() dynamo.Params            { return d.params }
func (d *Driver) Integrator() dynamo.Integrator    { return d.integrator }
func (d *Driver) Interactors() []dynamo.Interactor { return d.interactors }

// Measure samples the current state without advancing it.
func (d *Driver) Measure() dynamo.Sample {
	return metrics.Measure(d.integrator, d.interactors, d.params)
}

func (d *Driver) validate(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidParams, cfg.Steps)
	}
	if cfg.WriteEvery < 0 || cfg.MeasureEvery < 0 {
		return fmt.Errorf("%w: intervals must be non-negative", dynamo.ErrInvalidParams)
	}
	return d.params.Validate()
}

// Run advances the integrator cfg.Steps times. Step 0 is measured and written
// before the first update. Cancelling ctx stops the run between steps; the
// partial result is returned with ctx.Err().
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := d.validate(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]dynamo.Sample, 0, sampleCap(cfg)),
		Metrics: make(map[string]float64),
	}
	for _, m := range d.metrics {
		m.Reset()
	}

	start := time.Now()
	err := d.loop(ctx, cfg, result)
	if ferr := d.flush(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	result.Elapsed = time.Since(start)
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	d.log.Infof("ran %d steps in %s", result.Steps, result.Elapsed)
	return result, err
}

func (d *Driver) loop(ctx context.Context, cfg Config, result *Result) error {
	if err := d.record(cfg, result); err != nil {
		return err
	}
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.integrator.Update()
		result.Steps++

		if f, ok := d.integrator.(faulter); ok {
			if fault := f.TakeFault(); fault != nil {
				result.Faults = append(result.Faults, fault)
				if cfg.StopOnFault {
					d.log.Errorln("stopping:", fault)
					return fault
				}
			}
		}
		if err := d.record(cfg, result); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) record(cfg Config, result *Result) error {
	step := d.integrator.Steps()
	if cfg.MeasureEvery > 0 && step%cfg.MeasureEvery == 0 {
		s := d.Measure()
		result.Samples = append(result.Samples, s)
		for _, m := range d.metrics {
			m.Observe(s)
		}
		for _, o := range d.observers {
			if err := o.Observe(s); err != nil {
				return &dynamo.StepError{Step: step, Time: s.Time, Wrapped: err}
			}
		}
	}
	if cfg.WriteEvery > 0 && step%cfg.WriteEvery == 0 {
		if err := d.integrator.Write(!cfg.Async); err != nil {
			return &dynamo.StepError{Step: step, Time: float64(step) * d.params.Dt, Wrapped: err}
		}
	}
	return nil
}

func (d *Driver) flush() error {
	if f, ok := d.integrator.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func sampleCap(cfg Config) int {
	if cfg.MeasureEvery <= 0 {
		return 0
	}
	return cfg.Steps/cfg.MeasureEvery + 1
}
