package integrators

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// BrownianEulerMaruyama integrates overdamped Langevin dynamics:
//
//	x += M F dt + sqrt(2 T M dt) ξ,  M = 1 / (6 π η a)
type BrownianEulerMaruyama struct {
	Base
	temperature float64
	mobility    float64
	rng         *rand.Rand
	noise       []dynamo.Vec3
}

func NewBrownianEulerMaruyama(p *dynamo.Particles, params dynamo.Params, temperature, viscosity, radius float64, opts ...Option) (*BrownianEulerMaruyama, error) {
	if viscosity <= 0 || radius <= 0 {
		return nil, fmt.Errorf("%w: viscosity %g and radius %g must be positive", dynamo.ErrInvalidParams, viscosity, radius)
	}
	if temperature < 0 {
		return nil, fmt.Errorf("%w: negative temperature %g", dynamo.ErrInvalidParams, temperature)
	}
	o := buildOptions(opts)
	return &BrownianEulerMaruyama{
		Base:        newBase(p, params, o),
		temperature: temperature,
		mobility:    1 / (6 * math.Pi * viscosity * radius),
		rng:         rand.New(rand.NewSource(o.seed)),
		noise:       make([]dynamo.Vec3, p.N()),
	}, nil
}

func (b *BrownianEulerMaruyama) Mobility() float64 { return b.mobility }

func (b *BrownianEulerMaruyama) Update() {
	if b.steps == 0 {
		b.refreshForces()
	}
	b.tick()

	dt := b.params.Dt
	amp := math.Sqrt(2 * b.temperature * b.mobility * dt)
	// The source is not safe for concurrent use; draw serially.
	for i := range b.noise {
		b.noise[i] = dynamo.Vec3{X: b.rng.NormFloat64(), Y: b.rng.NormFloat64(), Z: b.rng.NormFloat64()}
	}

	b.backend.ForEach(len(b.noise), func(i int) {
		drift := b.motion.Force(i).Scale(b.mobility * dt)
		x := b.motion.Pos(i).Add(drift).Add(b.noise[i].Scale(amp))
		b.motion.SetPos(i, x)
		b.motion.ClearForce(i)
	})

	b.refreshForces()
}

// SumEnergy is zero: overdamped particles carry no kinetic energy.
func (b *BrownianEulerMaruyama) SumEnergy() float64 { return 0 }
