// Package fixedpoint implements the scaled-integer arithmetic used to sum bonded
// forces independently of summation order.
//
// A contribution is rounded to a [Q] once, when it is added. Integer addition is
// associative, so the total does not depend on which worker or which CSR view
// produced the terms, or in what order they arrived.
package fixedpoint

import (
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
)

const (
	// FracBits is the number of fractional bits of a Q.
	FracBits = 24
	// Scale is 2^FracBits.
	Scale = float64(1 << FracBits)
	// Resolution is the value of one unit in the last place.
	Resolution = 1 / Scale
	// MaxAbs bounds a single contribution. A Q has 39 integer bits, so a slot can
	// take 512 maximal contributions before the sum overflows. Accum reports the
	// overflow instead of wrapping.
	MaxAbs = float64(1 << 30)
)

// Q is a signed fixed-point number with FracBits fractional bits.
type Q int64

// FromFloat rounds f to the nearest Q. ok is false when f is not finite or |f| > MaxAbs.
func FromFloat(f float64) (q Q, ok bool) {
	if math.IsNaN(f) || math.Abs(f) > MaxAbs {
		return 0, false
	}
	return Q(math.Round(f * Scale)), true
}

// MustFromFloat is FromFloat for values known to be in range, such as bond parameters
// that passed validation. Out of range values saturate.
func MustFromFloat(f float64) Q {
	q, ok := FromFloat(f)
	if ok {
		return q
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f > 0:
		return Q(MaxAbs * Scale)
	default:
		return Q(-MaxAbs * Scale)
	}
}

// Round returns f rounded to the nearest representable Q, as a float.
func Round(f float64) float64 { return MustFromFloat(f).Float() }

func (q Q) Float() float64 { return float64(q) / Scale }

// addTo adds b to *a and reports false if the sum overflowed.
func addTo(a *Q, b Q) bool {
	s := *a + b
	if (b > 0 && s < *a) || (b < 0 && s > *a) {
		return false
	}
	*a = s
	return true
}

// Vec is a fixed-point 3-vector.
type Vec struct {
	X, Y, Z Q
}

func (v Vec) Float() dynamo.Vec3 {
	return dynamo.Vec3{X: v.X.Float(), Y: v.Y.Float(), Z: v.Z.Float()}
}

// Accum sums vector and scalar contributions in fixed point. The force and the
// energy are tracked separately: a contribution that cannot be represented poisons
// only its own half, and that half of the result becomes NaN the way a float NaN
// would propagate.
type Accum struct {
	f         Vec
	e         Q
	forceBad  bool
	energyBad bool
}

func (a *Accum) Add(f dynamo.Vec3, energy float64) {
	a.AddForce(f)
	a.AddEnergy(energy)
}

func (a *Accum) AddForce(f dynamo.Vec3) {
	if a.forceBad {
		return
	}
	x, okx := FromFloat(f.X)
	y, oky := FromFloat(f.Y)
	z, okz := FromFloat(f.Z)
	if !(okx && oky && okz) {
		a.forceBad = true
		return
	}
	a.addVec(Vec{X: x, Y: y, Z: z})
}

func (a *Accum) AddEnergy(energy float64) {
	if a.energyBad {
		return
	}
	e, ok := FromFloat(energy)
	if !ok || !addTo(&a.e, e) {
		a.energyBad = true
	}
}

func (a *Accum) addVec(v Vec) {
	sum := a.f
	if !addTo(&sum.X, v.X) || !addTo(&sum.Y, v.Y) || !addTo(&sum.Z, v.Z) {
		a.forceBad = true
		return
	}
	a.f = sum
}

// AddQ adds contributions already in fixed point.
func (a *Accum) AddQ(f Vec, energy Q) {
	if !a.forceBad {
		a.addVec(f)
	}
	if !a.energyBad && !addTo(&a.e, energy) {
		a.energyBad = true
	}
}

// Valid reports whether both the force and the energy sums are representable.
func (a *Accum) Valid() bool { return !a.forceBad && !a.energyBad }

func (a *Accum) ForceValid() bool { return !a.forceBad }

func (a *Accum) EnergyValid() bool { return !a.energyBad }

// Result converts the sums back to floating point. An invalid force or energy
// comes back as NaN without affecting the other.
func (a *Accum) Result() (dynamo.Vec3, float64) {
	nan := math.NaN()
	f := dynamo.Vec3{X: nan, Y: nan, Z: nan}
	if !a.forceBad {
		f = a.f.Float()
	}
	e := nan
	if !a.energyBad {
		e = a.e.Float()
	}
	return f, e
}

func (a *Accum) Reset() { *a = Accum{} }
