package interactors

import (
	"fmt"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// csr indexes an array sorted by particle: the records of particle p occupy
// [start[p], end[p]). Particles without records have start[p] == end[p].
type csr struct {
	start []int
	end   []int
}

func (c csr) span(p int) (int, int) { return c.start[p], c.end[p] }

// total is the number of records covered by the index.
func (c csr) total() int {
	sum := 0
	for p := range c.start {
		sum += c.end[p] - c.start[p]
	}
	return sum
}

// sortByKey stably sorts items by key with a counting sort over [0, n) and
// returns the sorted copy together with its CSR index. Keys must already be
// validated to lie in [0, n).
func sortByKey[T any](items []T, n int, key func(T) int) ([]T, csr) {
	offsets := make([]int, n+1)
	for _, it := range items {
		offsets[key(it)+1]++
	}
	for p := 0; p < n; p++ {
		offsets[p+1] += offsets[p]
	}

	idx := csr{start: make([]int, n), end: make([]int, n)}
	copy(idx.start, offsets[:n])
	copy(idx.end, offsets[1:])

	next := make([]int, n)
	copy(next, idx.start)
	sorted := make([]T, len(items))
	for _, it := range items {
		k := key(it)
		sorted[next[k]] = it
		next[k]++
	}
	return sorted, idx
}

// verify checks the index against the sorted array: contiguous, non-overlapping
// ranges covering all m records, each holding only its own particle's records.
// One kernel per particle.
func (c csr) verify(backend compute.Backend, m int, keyAt func(pos int) int) error {
	n := len(c.start)
	if len(c.end) != n {
		return fmt.Errorf("%w: start/end length mismatch (%d != %d)", dynamo.ErrConstruction, n, len(c.end))
	}
	if n > 0 && c.start[0] != 0 {
		return fmt.Errorf("%w: first range starts at %d", dynamo.ErrConstruction, c.start[0])
	}
	if n > 0 && c.end[n-1] != m {
		return fmt.Errorf("%w: last range ends at %d, want %d", dynamo.ErrConstruction, c.end[n-1], m)
	}

	return backend.ForEachErr(n, func(p int) error {
		s, e := c.span(p)
		if s > e {
			return fmt.Errorf("%w: particle %d has inverted range [%d, %d)", dynamo.ErrConstruction, p, s, e)
		}
		if p+1 < n && c.start[p+1] != e {
			return fmt.Errorf("%w: gap after particle %d", dynamo.ErrConstruction, p)
		}
		for pos := s; pos < e; pos++ {
			if k := keyAt(pos); k != p {
				return fmt.Errorf("%w: record %d keyed by %d found in range of particle %d", dynamo.ErrConstruction, pos, k, p)
			}
		}
		return nil
	})
}
