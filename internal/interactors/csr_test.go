package interactors

import (
	"errors"
	"testing"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
)

func TestSortByKeyStable(t *testing.T) {
	type rec struct{ key, seq int }
	in := []rec{{2, 0}, {0, 1}, {2, 2}, {1, 3}, {0, 4}, {2, 5}}

	sorted, idx := sortByKey(in, 4, func(r rec) int { return r.key })

	wantOrder := []int{1, 4, 3, 0, 2, 5}
	for i, r := range sorted {
		if r.seq != wantOrder[i] {
			t.Fatalf("position %d: got seq %d, want %d (%v)", i, r.seq, wantOrder[i], sorted)
		}
	}

	wantStart := []int{0, 2, 3, 6}
	wantEnd := []int{2, 3, 6, 6}
	for p := range wantStart {
		if idx.start[p] != wantStart[p] || idx.end[p] != wantEnd[p] {
			t.Errorf("particle %d: range [%d,%d), want [%d,%d)", p, idx.start[p], idx.end[p], wantStart[p], wantEnd[p])
		}
	}
	if idx.total() != len(in) {
		t.Errorf("total %d, want %d", idx.total(), len(in))
	}

	if err := idx.verify(compute.Serial(), len(sorted), func(pos int) int { return sorted[pos].key }); err != nil {
		t.Errorf("verify failed on a valid index: %v", err)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	keys := []int{0, 0, 1, 2, 2}
	keyAt := func(pos int) int { return keys[pos] }

	tests := []struct {
		name string
		idx  csr
	}{
		{"shifted start", csr{start: []int{1, 2, 3}, end: []int{2, 3, 5}}},
		{"short end", csr{start: []int{0, 2, 3}, end: []int{2, 3, 4}}},
		{"gap", csr{start: []int{0, 3, 3}, end: []int{2, 3, 5}}},
		{"wrong owner", csr{start: []int{0, 1, 3}, end: []int{1, 3, 5}}},
		{"length mismatch", csr{start: []int{0, 2, 3}, end: []int{2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.idx.verify(compute.NewCPUBackend(2), len(keys), keyAt)
			if !errors.Is(err, dynamo.ErrConstruction) {
				t.Errorf("expected ErrConstruction, got %v", err)
			}
		})
	}
}
