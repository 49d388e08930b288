package compute

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest range worth handing to its own goroutine.
const minChunk = 64

type CPUBackend struct {
	workers int
	partial sync.Pool
}

// NewCPUBackend returns a goroutine backend. workers <= 0 uses runtime.NumCPU.
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return fmt.Sprintf("cpu (%d workers)", c.workers) }
func (c *CPUBackend) Workers() int { return c.workers }
func (c *CPUBackend) Cleanup()     {}

func (c *CPUBackend) chunks(n int) (workers, chunkSize int) {
	workers = c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize = (n + workers - 1) / workers
	return workers, chunkSize
}

func (c *CPUBackend) ForEach(n int, kernel func(i int)) {
	if n <= 0 {
		return
	}
	workers, chunkSize := c.chunks(n)
	if workers == 1 {
		for i := 0; i < n; i++ {
			kernel(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				kernel(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func (c *CPUBackend) ForEachErr(n int, kernel func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers, chunkSize := c.chunks(n)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := kernel(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *CPUBackend) Sum(n int, kernel func(i int) float64) float64 {
	if n <= 0 {
		return 0
	}
	partial := c.getPartial(n)
	defer c.partial.Put(partial)

	vals := *partial
	c.ForEach(n, func(i int) {
		vals[i] = kernel(i)
	})

	// Summing in index order keeps the result independent of the chunking.
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum
}

func (c *CPUBackend) getPartial(n int) *[]float64 {
	if p, ok := c.partial.Get().(*[]float64); ok && cap(*p) >= n {
		*p = (*p)[:n]
		return p
	}
	s := make([]float64, n)
	return &s
}
