package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildFunc assembles an independent driver for one replica.
type BuildFunc func(replica int, seed int64) (*Driver, error)

// Ensemble runs independent replicas concurrently, each with its own particle
// set and seed.
type Ensemble struct {
	build     BuildFunc
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build BuildFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps the number of replicas running at once. Zero means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns one result per replica, in replica order. The first failing
// replica cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			d, err := e.build(i, e.seedStart+int64(i))
			if err != nil {
				return fmt.Errorf("replica %d: %w", i, err)
			}
			res, err := d.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("replica %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
