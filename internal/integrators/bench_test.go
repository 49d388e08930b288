package integrators

import (
	"math/rand"
	"testing"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/interactors"
)

// benchChain builds n particles on a line joined by n-1 stretched springs.
func benchChain(n int) (*dynamo.Particles, dynamo.Params, []interactors.Bond) {
	rng := rand.New(rand.NewSource(1))
	p := dynamo.NewParticles(n)
	bonds := make([]interactors.Bond, 0, n-1)
	for i := 0; i < n; i++ {
		p.SetPosition(i, dynamo.Vec3{X: 1.1 * float64(i), Y: 0.1 * rng.Float64()}, 0)
		if i > 0 {
			bonds = append(bonds, interactors.Bond{I: i - 1, J: i, R0: 1, K: 10})
		}
	}
	return p, dynamo.Params{N: n, Dt: 0.001}, bonds
}

func benchVerlet(b *testing.B, n int, backend compute.Backend) {
	p, params, bonds := benchChain(n)
	bf, err := interactors.NewBondedForces(p, params, bonds, interactors.WithBackend(backend))
	if err != nil {
		b.Fatal(err)
	}
	v := NewTwoStepVelVerlet(p, params, 1, WithBackend(backend), WithProgressEvery(0))
	v.AddInteractor(bf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Update()
	}
}

func BenchmarkVerlet_Chain100_Serial(b *testing.B) {
	benchVerlet(b, 100, compute.Serial())
}

func BenchmarkVerlet_Chain10k_Serial(b *testing.B) {
	benchVerlet(b, 10000, compute.Serial())
}

func BenchmarkVerlet_Chain10k_Parallel(b *testing.B) {
	benchVerlet(b, 10000, compute.NewCPUBackend(0))
}

func BenchmarkBrownian_Chain10k(b *testing.B) {
	p, params, bonds := benchChain(10000)
	bf, err := interactors.NewBondedForces(p, params, bonds)
	if err != nil {
		b.Fatal(err)
	}
	integ, err := NewBrownianEulerMaruyama(p, params, 1, 1, 0.5, WithProgressEvery(0))
	if err != nil {
		b.Fatal(err)
	}
	integ.AddInteractor(bf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Update()
	}
}
