package interactors

import (
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// BondTerm is one two-body bond evaluated from its first particle's side.
type BondTerm struct {
	Force  dynamo.Vec3 // on the first particle
	Energy float64
	Virial float64 // r . Force
}

// BondPotential evaluates a bond given r = x_i - x_j.
type BondPotential func(r dynamo.Vec3, r0, k float64) BondTerm

// HarmonicSpring is E = k/2 (|r| - r0)^2. Coincident particles get no force.
func HarmonicSpring(r dynamo.Vec3, r0, k float64) BondTerm {
	d := r.Norm()
	if d == 0 {
		return BondTerm{Energy: 0.5 * k * r0 * r0}
	}
	dr := d - r0
	return BondTerm{
		Force:  r.Scale(-k * dr / d),
		Energy: 0.5 * k * dr * dr,
		Virial: -k * dr * d,
	}
}

// ThreeTerm is one three-body term. Fi + Fj + Fk must be zero.
type ThreeTerm struct {
	Fi, Fj, Fk dynamo.Vec3
	Energy     float64
	Virial     float64 // rij . Fi + rkj . Fk
}

// ThreePotential evaluates a three-body term with J as the vertex, given
// rij = x_i - x_j and rkj = x_k - x_j.
type ThreePotential func(b ThreeBond, rij, rkj dynamo.Vec3) ThreeTerm

// sinEps is the smallest sin(theta) at which an angle force is still evaluated.
const sinEps = 1e-8

// HarmonicAngle is E = Kspring/2 (theta - Theta0)^2 with theta the angle i-j-k.
// Collinear configurations (sin(theta) ~ 0) contribute energy but no force.
func HarmonicAngle(b ThreeBond, rij, rkj dynamo.Vec3) ThreeTerm {
	a, c := rij.Norm(), rkj.Norm()
	if a == 0 || c == 0 {
		return ThreeTerm{}
	}
	cos := rij.Dot(rkj) / (a * c)
	cos = math.Max(-1, math.Min(1, cos))
	theta := math.Acos(cos)
	dtheta := theta - b.Theta0

	term := ThreeTerm{Energy: 0.5 * b.Kspring * dtheta * dtheta}
	sin := math.Sqrt(1 - cos*cos)
	if sin < sinEps {
		return term
	}

	coef := b.Kspring * dtheta / sin
	term.Fi = rkj.Scale(1 / (a * c)).Sub(rij.Scale(cos / (a * a))).Scale(coef)
	term.Fk = rij.Scale(1 / (a * c)).Sub(rkj.Scale(cos / (c * c))).Scale(coef)
	term.Fj = term.Fi.Add(term.Fk).Neg()
	term.Virial = rij.Dot(term.Fi) + rkj.Dot(term.Fk)
	return term
}

// AngleSpring adds a harmonic stretch of both arms (rest length R0) to HarmonicAngle.
func AngleSpring(b ThreeBond, rij, rkj dynamo.Vec3) ThreeTerm {
	term := HarmonicAngle(b, rij, rkj)
	si := HarmonicSpring(rij, b.R0, b.Kspring)
	sk := HarmonicSpring(rkj, b.R0, b.Kspring)

	term.Fi = term.Fi.Add(si.Force)
	term.Fk = term.Fk.Add(sk.Force)
	term.Fj = term.Fi.Add(term.Fk).Neg()
	term.Energy += si.Energy + sk.Energy
	term.Virial += si.Virial + sk.Virial
	return term
}
