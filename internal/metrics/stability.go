package metrics

import (
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// Stability is the fraction of samples that stayed physical: finite total
// energy, temperature and virial, and |total| within threshold. A blown-up
// run scores 0.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	first      int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		first:     -1,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample dynamo.Sample) {
	s.samples++
	e := sample.Total()
	if !finite(e) || !finite(sample.Temperature) || !finite(sample.Virial) || math.Abs(e) > s.threshold {
		s.violations++
		if s.first < 0 {
			s.first = sample.Step
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// FirstViolation is the step of the earliest bad sample, or -1.
func (s *Stability) FirstViolation() int { return s.first }

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.first = -1
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
