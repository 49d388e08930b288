package integrators

import (
	"sync"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// SnapshotPool recycles position copies handed to the write path.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(n int) *SnapshotPool {
	return &SnapshotPool{
		size: n,
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]dynamo.Vec4, n)
				return &s
			},
		},
	}
}

func (p *SnapshotPool) Get() []dynamo.Vec4 {
	return *p.pool.Get().(*[]dynamo.Vec4)
}

// Put returns s to the pool. Slices of the wrong length are dropped.
func (p *SnapshotPool) Put(s []dynamo.Vec4) {
	if len(s) == p.size {
		p.pool.Put(&s)
	}
}
