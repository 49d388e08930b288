package metrics

import "github.com/san-kum/mdsim/internal/dynamo"

// Measure collects the observables of the current state. Kinetic energy comes
// from the integrator; potential energy and virial are summed over interactors.
//
// Temperature is 2K/(3N) in reduced units. Pressure (2K+W)/(3V) is only
// defined for a periodic box and is zero otherwise.
func Measure(integ dynamo.Integrator, its []dynamo.Interactor, params dynamo.Params) dynamo.Sample {
	s := dynamo.Sample{
		Step:    integ.Steps(),
		Time:    float64(integ.Steps()) * params.Dt,
		Kinetic: integ.SumEnergy(),
	}
	for _, it := range its {
		s.Potential += it.SumEnergy()
		s.Virial += it.SumVirial()
	}
	if params.N > 0 {
		s.Temperature = 2 * s.Kinetic / (3 * float64(params.N))
	}
	if v := params.Volume(); params.Periodic() && v > 0 {
		s.Pressure = (2*s.Kinetic + s.Virial) / (3 * v)
	}
	return s
}
