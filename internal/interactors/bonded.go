package interactors

import (
	"fmt"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/fixedpoint"
)

// BondedForces computes harmonic two-body spring forces.
//
// The bond list is kept twice, both times sorted by particle with a CSR index:
// once as given, keyed by I, and once reciprocal, keyed by J, in fixed point.
// SumForce then runs one kernel per particle that walks the bonds touching it
// in both views, so no particle slot is ever written by two workers. The
// contributions are summed as fixed-point integers, which makes the result
// independent of the order in which a particle's bonds are visited.
//
// Both views evaluate a bond with R0 and K rounded to fixed point, so the i-side
// and j-side forces of one bond are exact negatives of each other.
type BondedForces struct {
	params    dynamo.Params
	sink      dynamo.ForceSink
	backend   compute.Backend
	log       *log.Logger
	potential BondPotential

	nbonds    int
	bondList  []Bond
	bondStart []int
	bondEnd   []int

	nbondsFP    int
	bondListFP  []BondFP
	bondStartFP []int
	bondEndFP   []int
}

var _ dynamo.Interactor = (*BondedForces)(nil)

// NewBondedForces builds the interactor from an in-memory bond list. Ids must lie
// in [0, N) and differ; repeated pairs are handled by the duplicate policy.
func NewBondedForces(p *dynamo.Particles, params dynamo.Params, bonds []Bond, opts ...Option) (*BondedForces, error) {
	o := buildOptions(opts)
	n := p.N()

	if err := validateBonds(bonds, n); err != nil {
		return nil, err
	}
	bonds, err := dedupe(bonds, n, pairKey, o)
	if err != nil {
		return nil, err
	}

	reciprocal := make([]BondFP, len(bonds))
	for i, b := range bonds {
		reciprocal[i] = BondFP{
			I:  b.J,
			J:  b.I,
			R0: fixedpoint.MustFromFloat(b.R0),
			K:  fixedpoint.MustFromFloat(b.K),
		}
	}

	sorted, idx := sortByKey(bonds, n, func(b Bond) int { return b.I })
	sortedFP, idxFP := sortByKey(reciprocal, n, func(b BondFP) int { return b.I })

	if err := idx.verify(o.backend, len(sorted), func(pos int) int { return sorted[pos].I }); err != nil {
		return nil, fmt.Errorf("bond index: %w", err)
	}
	if err := idxFP.verify(o.backend, len(sortedFP), func(pos int) int { return sortedFP[pos].I }); err != nil {
		return nil, fmt.Errorf("reciprocal bond index: %w", err)
	}

	bf := &BondedForces{
		params:      params,
		sink:        p.ForceSink(),
		backend:     o.backend,
		log:         o.log,
		potential:   o.bond,
		nbonds:      len(sorted),
		bondList:    sorted,
		bondStart:   idx.start,
		bondEnd:     idx.end,
		nbondsFP:    len(sortedFP),
		bondListFP:  sortedFP,
		bondStartFP: idxFP.start,
		bondEndFP:   idxFP.end,
	}
	bf.log.Infof("bonded forces: %d bonds over %d particles", bf.nbonds, n)
	return bf, nil
}

// LoadBondedForces reads a bond file ("i j r0 k" per line) and builds the interactor.
func LoadBondedForces(p *dynamo.Particles, params dynamo.Params, path string, opts ...Option) (*BondedForces, error) {
	bonds, err := ReadBondFile(path)
	if err != nil {
		return nil, err
	}
	return NewBondedForces(p, params, bonds, opts...)
}

func (bf *BondedForces) NumBonds() int { return bf.nbonds }

func (bf *BondedForces) primary(p int) []Bond {
	return bf.bondList[bf.bondStart[p]:bf.bondEnd[p]]
}

func (bf *BondedForces) reciprocal(p int) []BondFP {
	return bf.bondListFP[bf.bondStartFP[p]:bf.bondEndFP[p]]
}

// term evaluates a bond from particle p towards q with fixed-point parameters.
func (bf *BondedForces) term(p, q int, r0, k fixedpoint.Q) BondTerm {
	return bf.potential(bf.separation(p, q), r0.Float(), k.Float())
}

// primaryTerm evaluates a primary record with the same rounded parameters the
// reciprocal view stores.
func (bf *BondedForces) primaryTerm(p int, b Bond) BondTerm {
	return bf.term(p, b.J, fixedpoint.MustFromFloat(b.R0), fixedpoint.MustFromFloat(b.K))
}

// separation returns x_p - x_q, folded by the minimum image convention.
func (bf *BondedForces) separation(p, q int) dynamo.Vec3 {
	return bf.params.MinImage(bf.sink.Pos(p).Sub(bf.sink.Pos(q)))
}

// SumForce adds every bond's force to both of its particles. Each particle also
// gets half of each of its bonds' energy.
func (bf *BondedForces) SumForce() {
	bf.backend.ForEach(bf.sink.Len(), func(p int) {
		var acc fixedpoint.Accum
		for _, b := range bf.primary(p) {
			t := bf.primaryTerm(p, b)
			acc.Add(t.Force, 0.5*t.Energy)
		}
		for _, b := range bf.reciprocal(p) {
			t := bf.term(p, b.J, b.R0, b.K)
			acc.Add(t.Force, 0.5*t.Energy)
		}
		f, e := acc.Result()
		bf.sink.Add(p, f, e)
	})
}

// SumEnergy counts every bond once, from the primary view.
func (bf *BondedForces) SumEnergy() float64 {
	return bf.backend.Sum(bf.sink.Len(), func(p int) float64 {
		e := 0.0
		for _, b := range bf.primary(p) {
			e += bf.primaryTerm(p, b).Energy
		}
		return e
	})
}

// SumVirial returns sum over bonds of r_ij . F_ij, from the primary view.
func (bf *BondedForces) SumVirial() float64 {
	return bf.backend.Sum(bf.sink.Len(), func(p int) float64 {
		w := 0.0
		for _, b := range bf.primary(p) {
			w += bf.primaryTerm(p, b).Virial
		}
		return w
	})
}

// reciprocalEnergy is SumEnergy computed from the reciprocal view only. Both
// views hold every bond exactly once, so the two totals agree.
func (bf *BondedForces) reciprocalEnergy() float64 {
	return bf.backend.Sum(bf.sink.Len(), func(p int) float64 {
		e := 0.0
		for _, b := range bf.reciprocal(p) {
			e += bf.term(p, b.J, b.R0, b.K).Energy
		}
		return e
	})
}

// Bonds re-collects the bond list by walking the primary index particle by
// particle. The result is sorted by I, stably with respect to the input.
func (bf *BondedForces) Bonds() []Bond {
	out := make([]Bond, 0, bf.nbonds)
	for p := range bf.bondStart {
		out = append(out, bf.primary(p)...)
	}
	return out
}

// ReciprocalBonds walks the reciprocal index and converts each record back to
// the orientation it was given in.
func (bf *BondedForces) ReciprocalBonds() []Bond {
	out := make([]Bond, 0, bf.nbondsFP)
	for p := range bf.bondStartFP {
		for _, b := range bf.reciprocal(p) {
			out = append(out, Bond{I: b.J, J: b.I, R0: b.R0.Float(), K: b.K.Float()})
		}
	}
	return out
}
