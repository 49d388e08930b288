package automation

import (
	"context"
	"fmt"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// Sweep runs Base once per value of Param, Replicas times each.
type Sweep struct {
	Base     *config.Config
	Param    string
	Values   []float64
	Replicas int
	Limit    int
}

// SweepResult averages each metric over the replicas of one value.
type SweepResult struct {
	Value    float64
	Metrics  map[string]float64
	Stable   int
	Replicas int
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func RunSweep(ctx context.Context, sweep *Sweep, logger *log.Logger) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("%w: sweep has no base config", dynamo.ErrInvalidParams)
	}
	replicas := max(sweep.Replicas, 1)
	results := make([]SweepResult, 0, len(sweep.Values))

	for i, v := range sweep.Values {
		cfg := *sweep.Base
		if err := SetParam(&cfg, sweep.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		runs, err := RunReplicas(ctx, &cfg, replicas, sweep.Limit, logger)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		sr := SweepResult{Value: v, Metrics: make(map[string]float64), Replicas: replicas}
		for _, r := range runs {
			for name, m := range r.Metrics {
				sr.Metrics[name] += m / float64(replicas)
			}
			if Stable(r) {
				sr.Stable++
			}
		}
		results = append(results, sr)
		logger.Infof("sweep %d/%d: %s=%g stable %d/%d", i+1, len(sweep.Values), sweep.Param, v, sr.Stable, replicas)
	}
	return results, nil
}
