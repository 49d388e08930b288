package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/automation"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/optim"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := automation.RunScenario(ctx, sc, dynamo.NewLogger(logLevel))
	table := newTable("STEP", "REPLICAS", "STABLE", "MEAN ENERGY", "DRIFT", "MEAN T")
	for _, r := range results {
		var stable int
		var energy, drift, temp float64
		for _, res := range r.Results {
			if automation.Stable(res) {
				stable++
			}
			energy += res.Metrics["mean_energy"]
			drift += res.Metrics["energy_drift"]
			temp += res.Metrics["mean_temperature"]
		}
		n := float64(len(r.Results))
		table.Append([]string{
			r.Name,
			fmt.Sprintf("%d", len(r.Results)),
			fmt.Sprintf("%d", stable),
			fmt.Sprintf("%.6g", energy/n),
			fmt.Sprintf("%.3g", drift/n),
			fmt.Sprintf("%.4g", temp/n),
		})
	}
	table.Render()
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	param, _ := cmd.Flags().GetString("param")
	from, _ := cmd.Flags().GetFloat64("from")
	to, _ := cmd.Flags().GetFloat64("to")
	count, _ := cmd.Flags().GetInt("count")
	replicas, _ := cmd.Flags().GetInt("replicas")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := automation.RunSweep(ctx, &automation.Sweep{
		Base:     cfg,
		Param:    param,
		Values:   automation.Linspace(from, to, count),
		Replicas: replicas,
	}, dynamo.NewLogger(cfg.LogLevel))

	var names []string
	if len(results) > 0 {
		for name := range results[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	header := append([]string{strings.ToUpper(param), "STABLE"}, names...)
	table := newTable(header...)
	for _, r := range results {
		row := []string{fmt.Sprintf("%g", r.Value), fmt.Sprintf("%d/%d", r.Stable, r.Replicas)}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.6g", r.Metrics[name]))
		}
		table.Append(row)
	}
	table.Render()
	return runErr
}

// parseGrid reads --grid values of the form name=v1,v2
func parseGrid(grid []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, arg := range grid {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid %q: want name=v1,v2", arg)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", arg, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	grid, _ := cmd.Flags().GetStringArray("grid")
	metric, _ := cmd.Flags().GetString("metric")
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, val, err := optim.NewGridSearch(names, ranges, dynamo.NewLogger(cfg.LogLevel)).Search(ctx, cfg, metric)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6g\n", metric, val)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
