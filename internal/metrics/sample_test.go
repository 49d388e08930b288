package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/dynamo"
)

type fixedIntegrator struct {
	kinetic float64
	steps   int
}

func (f *fixedIntegrator) AddInteractor(dynamo.Interactor) {}
func (f *fixedIntegrator) Update()                         { f.steps++ }
func (f *fixedIntegrator) Write(bool) error                { return nil }
func (f *fixedIntegrator) SumEnergy() float64              { return f.kinetic }
func (f *fixedIntegrator) Steps() int                      { return f.steps }

type fixedInteractor struct{ energy, virial float64 }

func (f fixedInteractor) SumForce()          {}
func (f fixedInteractor) SumEnergy() float64 { return f.energy }
func (f fixedInteractor) SumVirial() float64 { return f.virial }

func TestMeasure(t *testing.T) {
	integ := &fixedIntegrator{kinetic: 6, steps: 10}
	its := []dynamo.Interactor{fixedInteractor{1, -3}, fixedInteractor{2, 1}}

	s := Measure(integ, its, dynamo.Params{N: 4, L: 2, Dt: 0.01})

	if s.Step != 10 || math.Abs(s.Time-0.1) > 1e-12 {
		t.Errorf("unexpected step/time: %d %f", s.Step, s.Time)
	}
	if s.Potential != 3 || s.Virial != -2 {
		t.Errorf("unexpected potential/virial: %f %f", s.Potential, s.Virial)
	}
	if s.Total() != 9 {
		t.Errorf("expected total 9, got %f", s.Total())
	}
	if math.Abs(s.Temperature-1) > 1e-12 {
		t.Errorf("expected temperature 1, got %f", s.Temperature)
	}
	// (2*6 - 2) / (3 * 8)
	if math.Abs(s.Pressure-10.0/24) > 1e-12 {
		t.Errorf("expected pressure %f, got %f", 10.0/24, s.Pressure)
	}
}

func TestMeasureOpenBoxHasNoPressure(t *testing.T) {
	s := Measure(&fixedIntegrator{kinetic: 1}, nil, dynamo.Params{N: 1, Dt: 0.1})
	if s.Pressure != 0 {
		t.Errorf("expected zero pressure without a box, got %f", s.Pressure)
	}
}
