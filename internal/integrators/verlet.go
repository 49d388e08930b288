package integrators

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// TwoStepVelVerlet is velocity Verlet split around a single force refresh.
// Particles have unit mass.
type TwoStepVelVerlet struct {
	Base
	vel []dynamo.Vec3
}

// NewTwoStepVelVerlet seeds every velocity component uniformly in
// [-sqrt(3T), sqrt(3T)].
func NewTwoStepVelVerlet(p *dynamo.Particles, params dynamo.Params, temperature float64, opts ...Option) *TwoStepVelVerlet {
	o := buildOptions(opts)
	v := &TwoStepVelVerlet{
		Base: newBase(p, params, o),
		vel:  make([]dynamo.Vec3, p.N()),
	}

	rng := rand.New(rand.NewSource(o.seed))
	vamp := math.Sqrt(3 * math.Max(temperature, 0))
	uniform := func() float64 { return vamp * (2*rng.Float64() - 1) }
	for i := range v.vel {
		v.vel[i] = dynamo.Vec3{X: uniform(), Y: uniform(), Z: uniform()}
	}
	return v
}

func (v *TwoStepVelVerlet) Update() {
	if v.steps == 0 {
		v.refreshForces()
	}
	v.tick()

	dt := v.params.Dt
	half := 0.5 * dt
	v.backend.ForEach(len(v.vel), func(i int) {
		a := v.motion.Force(i)
		x := v.motion.Pos(i)
		v.motion.SetPos(i, x.Add(v.vel[i].Scale(dt)).Add(a.Scale(half*dt)))
		v.vel[i] = v.vel[i].Add(a.Scale(half))
		v.motion.ClearForce(i)
	})

	v.refreshForces()

	v.backend.ForEach(len(v.vel), func(i int) {
		v.vel[i] = v.vel[i].Add(v.motion.Force(i).Scale(half))
	})
}

// SumEnergy returns the kinetic energy.
func (v *TwoStepVelVerlet) SumEnergy() float64 {
	return v.backend.Sum(len(v.vel), func(i int) float64 {
		return 0.5 * v.vel[i].Norm2()
	})
}

// Velocities returns a copy of the velocities.
func (v *TwoStepVelVerlet) Velocities() []dynamo.Vec3 {
	return append([]dynamo.Vec3(nil), v.vel...)
}

func (v *TwoStepVelVerlet) SetVelocities(vel []dynamo.Vec3) error {
	if len(vel) != len(v.vel) {
		return fmt.Errorf("%w: %d velocities for %d particles", dynamo.ErrInvalidParams, len(vel), len(v.vel))
	}
	copy(v.vel, vel)
	return nil
}
