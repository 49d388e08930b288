package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/interactors"
	"github.com/san-kum/mdsim/internal/metrics"
)

type countingWriter struct {
	mu    sync.Mutex
	steps []int
}

func (w *countingWriter) WriteSnapshot(step int, params dynamo.Params, pos []dynamo.Vec4) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.steps = append(w.steps, step)
	return nil
}

func newDimer(t *testing.T, temperature float64, seed int64, opts ...integrators.Option) *Driver {
	t.Helper()
	params := dynamo.Params{N: 2, Dt: 0.001}
	parts := dynamo.NewParticles(2)
	parts.SetPosition(1, dynamo.Vec3{X: 1.5}, 0)

	bf, err := interactors.NewBondedForces(parts, params, []interactors.Bond{{I: 0, J: 1, R0: 1, K: 10}})
	if err != nil {
		t.Fatalf("bonded forces: %v", err)
	}
	opts = append(opts, integrators.WithSeed(seed))
	d, err := New(parts, params, integrators.NewTwoStepVelVerlet(parts, params, temperature, opts...), nil)
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	d.AddInteractor(bf)
	return d
}

func TestDriverRun(t *testing.T) {
	w := &countingWriter{}
	d := newDimer(t, 0, 1, integrators.WithWriter(w))
	d.AddMetric(metrics.NewEnergyDrift())

	result, err := d.Run(context.Background(), Config{Steps: 100, WriteEvery: 25, MeasureEvery: 10, Async: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Steps != 100 {
		t.Errorf("expected 100 steps, got %d", result.Steps)
	}
	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if want := []int{0, 25, 50, 75, 100}; len(w.steps) != len(want) {
		t.Errorf("expected writes at %v, got %v", want, w.steps)
	}

	first := result.Samples[0]
	if math.Abs(first.Potential-1.25) > 1e-12 || first.Kinetic != 0 {
		t.Errorf("unexpected initial sample: %+v", first)
	}
	if result.Final().Step != 100 {
		t.Errorf("expected final sample at step 100, got %d", result.Final().Step)
	}
	if drift := result.Metrics["energy_drift"]; drift > 1e-4 {
		t.Errorf("energy drift too large: %g", drift)
	}
}

func TestDriverRunInvalidConfig(t *testing.T) {
	d := newDimer(t, 0, 1)
	if _, err := d.Run(context.Background(), Config{Steps: -1}); !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestNewRejectsParticleCountMismatch(t *testing.T) {
	parts := dynamo.NewParticles(3)
	params := dynamo.Params{N: 2, Dt: 0.001}
	d, err := New(parts, params, integrators.NewTwoStepVelVerlet(parts, params, 0), nil)
	if d != nil || !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestDriverRunCancelled(t *testing.T) {
	d := newDimer(t, 0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.Run(ctx, Config{Steps: 1000})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Steps != 0 {
		t.Errorf("expected partial result with 0 steps, got %+v", result)
	}
}

func TestObserverErrorStopsRun(t *testing.T) {
	d := newDimer(t, 0, 1)
	boom := errors.New("observer failed")
	calls := 0
	d.AddObserver(ObserverFunc(func(s dynamo.Sample) error {
		calls++
		if s.Step >= 20 {
			return boom
		}
		return nil
	}))

	result, err := d.Run(context.Background(), Config{Steps: 100, MeasureEvery: 10})
	if !errors.Is(err, boom) {
		t.Fatalf("expected observer error, got %v", err)
	}
	var se *dynamo.StepError
	if !errors.As(err, &se) || se.Step != 20 {
		t.Errorf("expected StepError at step 20, got %v", err)
	}
	if result.Steps != 20 || calls != 3 {
		t.Errorf("expected to stop after 20 steps and 3 observations, got %d and %d", result.Steps, calls)
	}
}

func TestWriteWithoutWriterFails(t *testing.T) {
	d := newDimer(t, 0, 1)
	_, err := d.Run(context.Background(), Config{Steps: 10, WriteEvery: 5})
	if !errors.Is(err, integrators.ErrNoWriter) {
		t.Errorf("expected ErrNoWriter, got %v", err)
	}
}

type nanForce struct{ sink dynamo.ForceSink }

func (n nanForce) SumForce()          { n.sink.Add(1, dynamo.Vec3{Y: math.Inf(1)}, 0) }
func (n nanForce) SumEnergy() float64 { return 0 }
func (n nanForce) SumVirial() float64 { return 0 }

func TestFaultHandling(t *testing.T) {
	for _, stop := range []bool{false, true} {
		d := newDimer(t, 0, 1, integrators.WithFiniteCheck(true))
		d.AddInteractor(nanForce{sink: d.Particles().ForceSink()})

		result, err := d.Run(context.Background(), Config{Steps: 5, StopOnFault: stop})
		if stop {
			if !errors.Is(err, dynamo.ErrNonFinite) || result.Steps != 1 {
				t.Errorf("stop on fault: got err %v after %d steps", err, result.Steps)
			}
			continue
		}
		if err != nil {
			t.Fatalf("run should continue past faults: %v", err)
		}
		if len(result.Faults) != 5 {
			t.Errorf("expected 5 faults, got %d", len(result.Faults))
		}
	}
}

func TestEnsemble(t *testing.T) {
	build := func(replica int, seed int64) (*Driver, error) {
		return newDimer(t, 1.0, seed), nil
	}
	ens := NewEnsemble(build, 4, 100)
	ens.SetLimit(2)

	results, err := ens.Run(context.Background(), Config{Steps: 50, MeasureEvery: 50})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Samples[0].Kinetic == results[1].Samples[0].Kinetic {
		t.Error("replicas with different seeds should start with different velocities")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("bad replica")
	build := func(replica int, seed int64) (*Driver, error) {
		if replica == 2 {
			return nil, boom
		}
		return newDimer(t, 0, seed), nil
	}
	if _, err := NewEnsemble(build, 3, 0).Run(context.Background(), Config{Steps: 10}); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
