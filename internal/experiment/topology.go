package experiment

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/interactors"
)

// Topology is a generated starting configuration.
type Topology struct {
	Positions  []dynamo.Vec4
	Bonds      []interactors.Bond
	ThreeBonds []interactors.ThreeBond
}

type TopologyFunc func(cfg *config.Config, rng *rand.Rand) (*Topology, error)

func needAtLeast(name string, n, min int) error {
	if n < min {
		return fmt.Errorf("%w: topology %s needs at least %d particles, got %d", dynamo.ErrInvalidParams, name, min, n)
	}
	return nil
}

func (t *Topology) bond(i, j int, b config.BondConfig) {
	t.Bonds = append(t.Bonds, interactors.Bond{I: i, J: j, R0: b.R0, K: b.K})
}

func (t *Topology) angle(i, j, k int, b config.BondConfig) {
	if b.Kspring == 0 {
		return
	}
	t.ThreeBonds = append(t.ThreeBonds, interactors.ThreeBond{I: i, J: j, K: k, R0: b.R0, Kspring: b.Kspring, Theta0: b.Theta0})
}

// Dimer places two particles 1.5 r0 apart on the x axis, joined by one spring.
func Dimer(cfg *config.Config, rng *rand.Rand) (*Topology, error) {
	if cfg.N != 2 {
		return nil, fmt.Errorf("%w: topology dimer needs exactly 2 particles, got %d", dynamo.ErrInvalidParams, cfg.N)
	}
	t := &Topology{Positions: []dynamo.Vec4{{}, {X: 1.5 * cfg.Bond.R0}}}
	t.bond(0, 1, cfg.Bond)
	return t, nil
}

// Chain lines particles up along x at spacing r0 with springs between
// neighbours and, when kspring is set, an angle term at every inner particle.
func Chain(cfg *config.Config, rng *rand.Rand) (*Topology, error) {
	if err := needAtLeast("chain", cfg.N, 2); err != nil {
		return nil, err
	}
	t := &Topology{Positions: make([]dynamo.Vec4, cfg.N)}
	for i := range t.Positions {
		t.Positions[i] = dynamo.Vec4{X: float64(i) * cfg.Bond.R0}
		if i > 0 {
			t.bond(i-1, i, cfg.Bond)
		}
		if i > 1 {
			t.angle(i-2, i-1, i, cfg.Bond)
		}
	}
	return t, nil
}

// Ring closes a chain into a regular polygon in the xy plane.
func Ring(cfg *config.Config, rng *rand.Rand) (*Topology, error) {
	n := cfg.N
	if err := needAtLeast("ring", n, 3); err != nil {
		return nil, err
	}
	radius := cfg.Bond.R0 / (2 * math.Sin(math.Pi/float64(n)))
	t := &Topology{Positions: make([]dynamo.Vec4, n)}
	for i := range t.Positions {
		phi := 2 * math.Pi * float64(i) / float64(n)
		t.Positions[i] = dynamo.Vec4{X: radius * math.Cos(phi), Y: radius * math.Sin(phi)}
		t.bond(i, (i+1)%n, cfg.Bond)
		t.angle((i+n-1)%n, i, (i+1)%n, cfg.Bond)
	}
	return t, nil
}

// Trimer is a right-angled three-particle molecule with one angle term at
// particle 1.
func Trimer(cfg *config.Config, rng *rand.Rand) (*Topology, error) {
	if cfg.N != 3 {
		return nil, fmt.Errorf("%w: topology trimer needs exactly 3 particles, got %d", dynamo.ErrInvalidParams, cfg.N)
	}
	r0 := cfg.Bond.R0
	t := &Topology{Positions: []dynamo.Vec4{{X: r0}, {}, {Y: r0}}}
	t.bond(0, 1, cfg.Bond)
	t.bond(1, 2, cfg.Bond)
	t.angle(0, 1, 2, cfg.Bond)
	return t, nil
}

// Dimers scatters n/2 bonded pairs with random orientation in the box.
func Dimers(cfg *config.Config, rng *rand.Rand) (*Topology, error) {
	if err := needAtLeast("dimers", cfg.N, 2); err != nil {
		return nil, err
	}
	if cfg.N%2 != 0 {
		return nil, fmt.Errorf("%w: topology dimers needs an even particle count, got %d", dynamo.ErrInvalidParams, cfg.N)
	}
	side := spread(cfg)
	t := &Topology{Positions: make([]dynamo.Vec4, cfg.N)}
	for i := 0; i < cfg.N; i += 2 {
		c := randomPoint(rng, side)
		d := randomDirection(rng).Scale(cfg.Bond.R0 / 2)
		t.Positions[i] = c.Sub(d).WithW(0)
		t.Positions[i+1] = c.Add(d).WithW(1)
		t.bond(i, i+1, cfg.Bond)
	}
	return t, nil
}

// Gas scatters unbonded particles uniformly in the box.
func Gas(cfg *config.Config, rng *rand.Rand) (*Topology, error) {
	side := spread(cfg)
	t := &Topology{Positions: make([]dynamo.Vec4, cfg.N)}
	for i := range t.Positions {
		t.Positions[i] = randomPoint(rng, side).WithW(0)
	}
	return t, nil
}

// spread is the box side, or a cube holding roughly one particle per unit
// volume for open boundaries.
func spread(cfg *config.Config) float64 {
	if cfg.Box > 0 {
		return cfg.Box
	}
	return math.Cbrt(float64(cfg.N))
}

func randomPoint(rng *rand.Rand, side float64) dynamo.Vec3 {
	return dynamo.Vec3{X: rng.Float64() * side, Y: rng.Float64() * side, Z: rng.Float64() * side}
}

func randomDirection(rng *rand.Rand) dynamo.Vec3 {
	for {
		v := dynamo.Vec3{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1, Z: 2*rng.Float64() - 1}
		if n2 := v.Norm2(); n2 > 1e-6 && n2 <= 1 {
			return v.Scale(1 / math.Sqrt(n2))
		}
	}
}
