// Package interactors provides the bonded force models.
//
//   - [BondedForces]: harmonic two-body springs, "i j r0 k" bond files
//   - [ThreeBondedForces]: three-body terms with a pluggable [ThreePotential]
//
// Both build their per-particle CSR indices once, at construction, and never
// change them afterwards. Construction fails fast: an id outside [0, N), a
// malformed file line or an inconsistent index returns an error and no
// interactor.
package interactors
