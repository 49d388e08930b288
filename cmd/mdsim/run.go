package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := cfg.Topology
	if len(args) > 0 {
		name = args[0]
	}
	logger := dynamo.NewLogger(cfg.LogLevel)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	run, err := st.Create(name, cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	d, err := exp.Build(integrators.WithWriter(run), integrators.WithProgressEvery(0))
	if err != nil {
		run.Close(0, 0, nil)
		return err
	}

	bar := pb.StartNew(cfg.Steps)
	d.AddObserver(run)
	d.AddObserver(sim.ObserverFunc(func(s dynamo.Sample) error {
		bar.SetCurrent(int64(s.Step))
		return nil
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, runErr := d.Run(ctx, exp.RunConfig())
	if result == nil {
		bar.Finish()
		run.Close(0, 0, nil)
		return runErr
	}
	bar.SetCurrent(int64(result.Steps))
	bar.Finish()

	if err := run.Close(result.Steps, result.Elapsed, result.Metrics); err != nil {
		return err
	}
	if runErr != nil {
		logger.Warnf("run %s stopped early: %v", run.ID(), runErr)
	}

	fmt.Printf("completed %d steps in %v\n", result.Steps, result.Elapsed)
	fmt.Printf("run id: %s\n", run.ID())
	if len(result.Faults) > 0 {
		fmt.Printf("non-finite forces on %d steps\n", len(result.Faults))
	}
	final := result.Final()
	fmt.Printf("final: E=%.6g K=%.6g U=%.6g T=%.4f\n", final.Total(), final.Kinetic, final.Potential, final.Temperature)

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Log output would tear the alternate screen.
	d, err := experiment.New(cfg, dynamo.DiscardLogger()).Build()
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(d, cfg.Topology, cfg.Steps), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
