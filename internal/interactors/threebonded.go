package interactors

import (
	"fmt"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/fixedpoint"
)

const (
	roleI = iota
	roleJ // vertex, owns the term's energy and virial
	roleK
)

// membership says that a particle takes part in term bond with the given role.
type membership struct {
	particle int
	bond     int
	role     int
}

// ThreeBondedForces computes three-body forces with a pluggable potential.
//
// Every term is indexed under each of its three particles, so the force kernel
// again runs one worker per particle, evaluates the terms it belongs to and
// keeps only its own component. Energy and virial are counted from the vertex
// entries, once per term.
type ThreeBondedForces struct {
	params    dynamo.Params
	sink      dynamo.ForceSink
	backend   compute.Backend
	log       *log.Logger
	potential ThreePotential

	nbonds    int
	bondList  []ThreeBond
	members   []membership
	bondStart []int
	bondEnd   []int
}

var _ dynamo.Interactor = (*ThreeBondedForces)(nil)

func NewThreeBondedForces(p *dynamo.Particles, params dynamo.Params, bonds []ThreeBond, opts ...Option) (*ThreeBondedForces, error) {
	o := buildOptions(opts)
	n := p.N()

	if err := validateThreeBonds(bonds, n); err != nil {
		return nil, err
	}
	bonds, err := dedupe(bonds, n, angleKey, o)
	if err != nil {
		return nil, err
	}

	members := make([]membership, 0, 3*len(bonds))
	for t, b := range bonds {
		for role, id := range b.ids() {
			members = append(members, membership{particle: id, bond: t, role: role})
		}
	}

	sorted, idx := sortByKey(members, n, func(m membership) int { return m.particle })
	if err := idx.verify(o.backend, len(sorted), func(pos int) int { return sorted[pos].particle }); err != nil {
		return nil, fmt.Errorf("three-body index: %w", err)
	}

	tb := &ThreeBondedForces{
		params:    params,
		sink:      p.ForceSink(),
		backend:   o.backend,
		log:       o.log,
		potential: o.three,
		nbonds:    len(bonds),
		bondList:  bonds,
		members:   sorted,
		bondStart: idx.start,
		bondEnd:   idx.end,
	}
	tb.log.Infof("three-bonded forces: %d terms over %d particles", tb.nbonds, n)
	return tb, nil
}

// LoadThreeBondedForces reads "i j k r0 kspring theta0" lines and builds the interactor.
func LoadThreeBondedForces(p *dynamo.Particles, params dynamo.Params, path string, opts ...Option) (*ThreeBondedForces, error) {
	bonds, err := ReadThreeBondFile(path)
	if err != nil {
		return nil, err
	}
	return NewThreeBondedForces(p, params, bonds, opts...)
}

func (tb *ThreeBondedForces) NumBonds() int { return tb.nbonds }

// Bonds returns a copy of the accepted terms in input order.
func (tb *ThreeBondedForces) Bonds() []ThreeBond {
	return append([]ThreeBond(nil), tb.bondList...)
}

func (tb *ThreeBondedForces) entries(p int) []membership {
	return tb.members[tb.bondStart[p]:tb.bondEnd[p]]
}

func (tb *ThreeBondedForces) eval(b ThreeBond) ThreeTerm {
	xj := tb.sink.Pos(b.J)
	rij := tb.params.MinImage(tb.sink.Pos(b.I).Sub(xj))
	rkj := tb.params.MinImage(tb.sink.Pos(b.K).Sub(xj))
	return tb.potential(b, rij, rkj)
}

func (tb *ThreeBondedForces) SumForce() {
	tb.backend.ForEach(tb.sink.Len(), func(p int) {
		var acc fixedpoint.Accum
		for _, m := range tb.entries(p) {
			t := tb.eval(tb.bondList[m.bond])
			var f dynamo.Vec3
			switch m.role {
			case roleI:
				f = t.Fi
			case roleJ:
				f = t.Fj
			case roleK:
				f = t.Fk
			}
			acc.Add(f, t.Energy/3)
		}
		f, e := acc.Result()
		tb.sink.Add(p, f, e)
	})
}

func (tb *ThreeBondedForces) SumEnergy() float64 {
	return tb.backend.Sum(tb.sink.Len(), func(p int) float64 {
		e := 0.0
		for _, m := range tb.entries(p) {
			if m.role == roleJ {
				e += tb.eval(tb.bondList[m.bond]).Energy
			}
		}
		return e
	})
}

func (tb *ThreeBondedForces) SumVirial() float64 {
	return tb.backend.Sum(tb.sink.Len(), func(p int) float64 {
		w := 0.0
		for _, m := range tb.entries(p) {
			if m.role == roleJ {
				w += tb.eval(tb.bondList[m.bond]).Virial
			}
		}
		return w
	})
}
