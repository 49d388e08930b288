package dynamo

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Norm2() float64       { return v.Dot(v) }
func (v Vec3) Norm() float64        { return math.Sqrt(v.Norm2()) }
func (v Vec3) WithW(w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }
func (v Vec3) String() string       { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }
func (v Vec3) IsFinite() bool       { return finite(v.X) && finite(v.Y) && finite(v.Z) }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Vec4 packs a 3-vector with one scalar. Positions carry the particle type in W,
// forces carry the potential energy.
type Vec4 struct {
	X, Y, Z, W float64
}

func (v Vec4) XYZ() Vec3 { return Vec3{v.X, v.Y, v.Z} }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Params are the simulation-wide constants. They are passed by value and never mutated.
type Params struct {
	N    int
	L    float64 // cubic box side; <= 0 means open boundaries
	Rcut float64
	Dt   float64
}

func (p Params) Periodic() bool { return p.L > 0 }

// Volume returns L^3, or 0 for open boundaries.
func (p Params) Volume() float64 {
	if !p.Periodic() {
		return 0
	}
	return p.L * p.L * p.L
}

// MinImage folds a separation vector into the primary box.
func (p Params) MinImage(r Vec3) Vec3 {
	if !p.Periodic() {
		return r
	}
	inv := 1 / p.L
	r.X -= math.Floor(r.X*inv+0.5) * p.L
	r.Y -= math.Floor(r.Y*inv+0.5) * p.L
	r.Z -= math.Floor(r.Z*inv+0.5) * p.L
	return r
}

func (p Params) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidParams, p.N)
	}
	if p.Dt < 0 || !finite(p.Dt) {
		return fmt.Errorf("%w: dt must be finite and non-negative, got %f", ErrInvalidParams, p.Dt)
	}
	if !finite(p.L) {
		return fmt.Errorf("%w: box size must be finite", ErrInvalidParams)
	}
	return nil
}

// Interactor adds one interaction model's contribution to the shared force buffer.
// SumForce is additive: several interactors compose into the same buffer in any order.
type Interactor interface {
	SumForce()
	SumEnergy() float64
	SumVirial() float64
}

// Integrator owns time evolution. Each Update invokes every registered Interactor once.
type Integrator interface {
	AddInteractor(it Interactor)
	Update()
	Write(block bool) error
	SumEnergy() float64
	Steps() int
}

// SnapshotWriter persists a frame of positions. The slice is only valid for the
// duration of the call.
type SnapshotWriter interface {
	WriteSnapshot(step int, params Params, pos []Vec4) error
}

// Sample is one measurement of the thermodynamic observables.
type Sample struct {
	Step        int     `json:"step"`
	Time        float64 `json:"time"`
	Kinetic     float64 `json:"kinetic"`
	Potential   float64 `json:"potential"`
	Virial      float64 `json:"virial"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
}

func (s Sample) Total() float64 { return s.Kinetic + s.Potential }

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
