package interactors

import (
	"math"
	"strconv"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/fixedpoint"
)

// Bond is a two-body spring between particles I and J.
type Bond struct {
	I, J int
	R0   float64 // equilibrium distance
	K    float64 // spring constant
}

// BondFP is the reciprocal record of a Bond, keyed by the bond's second particle
// (stored here as I) with its parameters held in fixed point.
type BondFP struct {
	I, J int
	R0   fixedpoint.Q
	K    fixedpoint.Q
}

// ThreeBond is a three-body term over particles I, J, K with J as the vertex.
type ThreeBond struct {
	I, J, K int
	R0      float64
	Kspring float64
	Theta0  float64 // equilibrium angle in radians
}

func (b ThreeBond) ids() [3]int { return [3]int{b.I, b.J, b.K} }

func checkParam(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && math.Abs(x) <= fixedpoint.MaxAbs
}

func checkIDs(index, n int, ids ...int) error {
	for a, id := range ids {
		if id < 0 || id >= n {
			return &dynamo.TopologyError{Index: index, IDs: ids, N: n, Reason: "particle id out of range"}
		}
		for _, other := range ids[a+1:] {
			if other == id {
				return &dynamo.TopologyError{Index: index, IDs: ids, N: n, Reason: "repeated particle"}
			}
		}
	}
	return nil
}

func validateBonds(bonds []Bond, n int) error {
	for idx, b := range bonds {
		if err := checkIDs(idx, n, b.I, b.J); err != nil {
			return err
		}
		if !checkParam(b.R0) || !checkParam(b.K) {
			return &dynamo.TopologyError{Index: idx, IDs: []int{b.I, b.J}, N: n, Reason: "parameter not representable"}
		}
	}
	return nil
}

func validateThreeBonds(bonds []ThreeBond, n int) error {
	for idx, b := range bonds {
		if err := checkIDs(idx, n, b.I, b.J, b.K); err != nil {
			return err
		}
		if !checkParam(b.R0) || !checkParam(b.Kspring) || !checkParam(b.Theta0) {
			return &dynamo.TopologyError{Index: idx, IDs: []int{b.I, b.J, b.K}, N: n, Reason: "parameter not representable"}
		}
	}
	return nil
}

// dedupe applies the duplicate policy. key maps a record to the canonical form
// of its particle ids, so that records describing the same interaction collide.
func dedupe[T any](items []T, n int, key func(T) [3]int, o options) ([]T, error) {
	if o.duplicates == DuplicateAllow {
		return items, nil
	}

	seen := make(map[[3]int]int, len(items))
	out := make([]T, 0, len(items))
	for idx, it := range items {
		k := key(it)
		if first, dup := seen[k]; dup {
			if o.duplicates == DuplicateReject {
				return nil, &dynamo.TopologyError{Index: idx, IDs: trimKey(k), N: n, Reason: "duplicate of record " + strconv.Itoa(first)}
			}
			o.log.Warnf("ignoring repeated bond %v at index %d (first seen at %d)", trimKey(k), idx, first)
			continue
		}
		seen[k] = idx
		out = append(out, it)
	}
	return out, nil
}

// pairKey is the unordered pair {I, J}.
func pairKey(b Bond) [3]int {
	if b.I > b.J {
		return [3]int{b.J, b.I, -1}
	}
	return [3]int{b.I, b.J, -1}
}

// angleKey keeps the vertex and orders the two ends, so i-j-k and k-j-i collide
// but i-k-j does not.
func angleKey(b ThreeBond) [3]int {
	if b.I > b.K {
		return [3]int{b.J, b.K, b.I}
	}
	return [3]int{b.J, b.I, b.K}
}

func trimKey(k [3]int) []int {
	if k[2] < 0 {
		return k[:2]
	}
	return k[:]
}
