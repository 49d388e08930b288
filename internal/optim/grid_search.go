package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/automation"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// GridSearch tries every combination of parameter values and keeps the one
// that minimises a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        *log.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *log.Logger) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, log: logger}
}

// Search runs base once per grid point. A point whose config fails to
// validate or build is skipped with a warning; it is an error only when every
// point fails.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%w: %d parameters but %d ranges", dynamo.ErrInvalidParams, len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("%w: no grid point produced %q", dynamo.ErrInvalidParams, metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	base *config.Config,
	current map[string]float64,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			if err := automation.SetParam(&cfg, name, v); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			g.log.Warnf("grid point %v: %v", current, err)
			return nil
		}

		runs, err := automation.RunReplicas(ctx, &cfg, 1, 0, g.log)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.Warnf("grid point %v: %v", current, err)
			return nil
		}

		val, ok := runs[0].Metrics[metricName]
		if !ok || math.IsNaN(val) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, base, next, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
