package main

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/integrators"
)

type benchResult struct {
	n       int
	workers int
	perStep time.Duration
}

func benchChains(cmd *cobra.Command, args []string) error {
	sizes, _ := cmd.Flags().GetIntSlice("sizes")
	steps, _ := cmd.Flags().GetInt("steps")
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	cpus := runtime.NumCPU()
	workerCounts := []int{1}
	if cpus > 1 {
		workerCounts = append(workerCounts, cpus)
	}

	bar := pb.StartNew(len(sizes) * len(workerCounts))
	var results []benchResult
	for _, n := range sizes {
		for _, w := range workerCounts {
			perStep, err := benchChain(n, w, steps)
			if err != nil {
				bar.Finish()
				return err
			}
			results = append(results, benchResult{n: n, workers: w, perStep: perStep})
			bar.Increment()
		}
	}
	bar.Finish()

	table := newTable("N", "WORKERS", "PER STEP", "STEPS/S", "SPEEDUP")
	var serial time.Duration
	for _, r := range results {
		if r.workers == 1 {
			serial = r.perStep
		}
		table.Append([]string{
			fmt.Sprintf("%d", r.n),
			fmt.Sprintf("%d", r.workers),
			r.perStep.String(),
			fmt.Sprintf("%.0f", float64(time.Second)/float64(r.perStep)),
			fmt.Sprintf("%.2fx", float64(serial)/float64(r.perStep)),
		})
	}
	table.Render()
	return nil
}

// benchChain times Verlet steps on a bent chain with springs and angle terms.
func benchChain(n, workers, steps int) (time.Duration, error) {
	cfg := config.DefaultConfig()
	cfg.N = n
	cfg.Topology = "chain"
	cfg.Temperature = 0.5
	cfg.Workers = workers
	cfg.Bond.Kspring = 5
	cfg.Bond.Theta0 = 2 * math.Pi / 3
	cfg.Output.WriteEvery = 0
	cfg.Output.MeasureEvery = 0

	d, err := experiment.New(cfg, dynamo.DiscardLogger()).Build(integrators.WithProgressEvery(0))
	if err != nil {
		return 0, err
	}
	integ := d.Integrator()
	// The first Update carries an extra force pass.
	integ.Update()

	start := time.Now()
	for i := 0; i < steps; i++ {
		integ.Update()
	}
	return time.Since(start) / time.Duration(steps), nil
}
