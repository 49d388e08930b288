package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/interactors"
)

// countingInteractor adds a constant force to every particle and counts passes.
type countingInteractor struct {
	sink  dynamo.ForceSink
	force dynamo.Vec3
	calls int
}

func (c *countingInteractor) SumForce() {
	c.calls++
	for i := 0; i < c.sink.Len(); i++ {
		c.sink.Add(i, c.force, 0)
	}
}
func (c *countingInteractor) SumEnergy() float64 { return 0 }
func (c *countingInteractor) SumVirial() float64 { return 0 }

func dimer(separation float64) *dynamo.Particles {
	p := dynamo.NewParticles(2)
	p.SetPosition(0, dynamo.Vec3{}, 0)
	p.SetPosition(1, dynamo.Vec3{X: separation}, 0)
	return p
}

var _ = Describe("TwoStepVelVerlet", func() {
	params := dynamo.Params{N: 2, Dt: 0.001}

	Context("when T=0 and a single spring is stretched", func() {
		It("contracts the dimer by F dt² in one step", func() {
			p := dimer(1.5)
			bf, err := interactors.NewBondedForces(p, params, []interactors.Bond{{I: 0, J: 1, R0: 1, K: 10}})
			Expect(err).NotTo(HaveOccurred())

			v := integrators.NewTwoStepVelVerlet(p, params, 0)
			v.AddInteractor(bf)
			v.Update()

			sep := p.Positions().Pos(1).Sub(p.Positions().Pos(0)).Norm()
			Expect(1.5 - sep).To(BeNumerically("~", 5e-6, 1e-9))
			Expect(v.Steps()).To(Equal(1))
		})

		It("keeps kinetic plus spring energy close to constant", func() {
			p := dimer(1.2)
			bf, err := interactors.NewBondedForces(p, params, []interactors.Bond{{I: 0, J: 1, R0: 1, K: 10}})
			Expect(err).NotTo(HaveOccurred())

			v := integrators.NewTwoStepVelVerlet(p, params, 0)
			v.AddInteractor(bf)
			start := bf.SumEnergy()
			for i := 0; i < 2000; i++ {
				v.Update()
			}
			Expect(v.SumEnergy() + bf.SumEnergy()).To(BeNumerically("~", start, 1e-4))
		})
	})

	Context("with dt=0", func() {
		It("leaves positions and velocities unchanged", func() {
			p := dimer(1.5)
			zero := dynamo.Params{N: 2}
			bf, err := interactors.NewBondedForces(p, zero, []interactors.Bond{{I: 0, J: 1, R0: 1, K: 10}})
			Expect(err).NotTo(HaveOccurred())

			v := integrators.NewTwoStepVelVerlet(p, zero, 2.0, integrators.WithSeed(7))
			v.AddInteractor(bf)
			before := p.Positions().CopyTo(nil)
			vel := v.Velocities()

			for i := 0; i < 10; i++ {
				v.Update()
			}
			Expect(p.Positions().CopyTo(nil)).To(Equal(before))
			Expect(v.Velocities()).To(Equal(vel))
		})
	})

	Context("without interactors", func() {
		It("drifts a free particle by v dt per step", func() {
			p := dynamo.NewParticles(1)
			v := integrators.NewTwoStepVelVerlet(p, dynamo.Params{N: 1, Dt: 0.01}, 0)
			Expect(v.SetVelocities([]dynamo.Vec3{{X: 1, Y: -2, Z: 0.5}})).To(Succeed())

			for i := 0; i < 100; i++ {
				v.Update()
			}
			Expect(p.Positions().Pos(0).X).To(BeNumerically("~", 1.0, 1e-12))
			Expect(p.Positions().Pos(0).Y).To(BeNumerically("~", -2.0, 1e-12))
			Expect(p.Positions().Pos(0).Z).To(BeNumerically("~", 0.5, 1e-12))
			Expect(v.Velocities()[0]).To(Equal(dynamo.Vec3{X: 1, Y: -2, Z: 0.5}))
		})

		It("rejects velocity slices of the wrong length", func() {
			v := integrators.NewTwoStepVelVerlet(dynamo.NewParticles(2), params, 0)
			Expect(v.SetVelocities(make([]dynamo.Vec3, 3))).To(MatchError(dynamo.ErrInvalidParams))
		})
	})

	It("runs one extra force pass on the first step only", func() {
		p := dynamo.NewParticles(3)
		c := &countingInteractor{sink: p.ForceSink()}
		v := integrators.NewTwoStepVelVerlet(p, dynamo.Params{N: 3, Dt: 0.01}, 0)
		v.AddInteractor(c)

		v.Update()
		Expect(c.calls).To(Equal(2))
		v.Update()
		v.Update()
		Expect(c.calls).To(Equal(4))
	})

	It("sums forces of every registered interactor", func() {
		p := dynamo.NewParticles(1)
		a := &countingInteractor{sink: p.ForceSink(), force: dynamo.Vec3{X: 1}}
		b := &countingInteractor{sink: p.ForceSink(), force: dynamo.Vec3{X: 3}}
		v := integrators.NewTwoStepVelVerlet(p, dynamo.Params{N: 1, Dt: 0.1}, 0)
		v.AddInteractor(a)
		v.AddInteractor(b)

		v.Update()
		// Constant acceleration 4: x = ½ a dt², v = a dt.
		Expect(p.Positions().Pos(0).X).To(BeNumerically("~", 0.02, 1e-12))
		Expect(v.Velocities()[0].X).To(BeNumerically("~", 0.4, 1e-12))
		Expect(p.Force(0).X).To(BeNumerically("~", 4, 1e-12))
	})

	It("seeds velocities inside the thermal amplitude", func() {
		const T = 1.5
		v := integrators.NewTwoStepVelVerlet(dynamo.NewParticles(500), dynamo.Params{N: 500, Dt: 0.001}, T,
			integrators.WithSeed(3), integrators.WithBackend(compute.NewCPUBackend(4)))
		vamp := math.Sqrt(3 * T)
		for _, vel := range v.Velocities() {
			Expect(math.Abs(vel.X)).To(BeNumerically("<=", vamp))
			Expect(math.Abs(vel.Y)).To(BeNumerically("<=", vamp))
			Expect(math.Abs(vel.Z)).To(BeNumerically("<=", vamp))
		}
		// Uniform on [-a, a] has <v²> = a²/3 = T per component.
		Expect(v.SumEnergy() / 500).To(BeNumerically("~", 1.5*T, 0.3))

		same := integrators.NewTwoStepVelVerlet(dynamo.NewParticles(500), dynamo.Params{N: 500, Dt: 0.001}, T, integrators.WithSeed(3))
		Expect(same.Velocities()).To(Equal(v.Velocities()))
	})
})

var _ = Describe("BrownianEulerMaruyama", func() {
	It("rejects non-positive viscosity or radius", func() {
		_, err := integrators.NewBrownianEulerMaruyama(dynamo.NewParticles(1), dynamo.Params{N: 1, Dt: 1}, 1, 0, 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidParams))
		_, err = integrators.NewBrownianEulerMaruyama(dynamo.NewParticles(1), dynamo.Params{N: 1, Dt: 1}, 1, 1, -1)
		Expect(err).To(MatchError(dynamo.ErrInvalidParams))
	})

	It("moves by mobility times force when T=0", func() {
		p := dynamo.NewParticles(1)
		b, err := integrators.NewBrownianEulerMaruyama(p, dynamo.Params{N: 1, Dt: 0.5}, 0, 1, 1)
		Expect(err).NotTo(HaveOccurred())
		b.AddInteractor(&countingInteractor{sink: p.ForceSink(), force: dynamo.Vec3{Y: 2}})

		b.Update()
		want := 2 * 0.5 / (6 * math.Pi)
		Expect(b.Mobility()).To(BeNumerically("~", 1/(6*math.Pi), 1e-15))
		Expect(p.Positions().Pos(0).Y).To(BeNumerically("~", want, 1e-12))
		Expect(b.SumEnergy()).To(BeZero())
	})

	It("spreads free particles with variance 2 T M t per axis", func() {
		const n, steps, T, dt = 2000, 50, 1.0, 0.01
		p := dynamo.NewParticles(n)
		b, err := integrators.NewBrownianEulerMaruyama(p, dynamo.Params{N: n, Dt: dt}, T, 1/(6*math.Pi), 1, integrators.WithSeed(11))
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < steps; i++ {
			b.Update()
		}

		var msd float64
		for i := 0; i < n; i++ {
			msd += p.Positions().Pos(i).Norm2()
		}
		msd /= n
		// M = 1, so <r²> = 6 T t.
		Expect(msd).To(BeNumerically("~", 6*T*steps*dt, 0.3))
	})
})
