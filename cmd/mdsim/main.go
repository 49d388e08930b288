package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/automation"
	"github.com/san-kum/mdsim/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string

	n            int
	box          float64
	dt           float64
	steps        int
	temperature  float64
	seed         int64
	integrator   string
	topology     string
	bondFile     string
	threeFile    string
	initFile     string
	writeEvery   int
	measureEvery int
	checkFinite  bool
	workers      int
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mdsim",
		Short:        "bonded molecular dynamics",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run a simulation and store its trajectory and energies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's energy log",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSlice("columns", []string{"total", "kinetic", "potential"}, "columns to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().Bool("frames", false, "include trajectory frames")
	exportJSONCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark bonded force evaluation and integration",
		RunE:  benchChains,
	}
	benchCmd.Flags().IntSlice("sizes", []int{1000, 10000, 100000}, "chain lengths")
	benchCmd.Flags().Int("steps", 200, "steps per measurement")

	bondsCmd := &cobra.Command{
		Use:   "bonds [file]",
		Short: "validate a bond file and summarise it",
		Args:  cobra.ExactArgs(1),
		RunE:  checkBonds,
	}
	bondsCmd.Flags().Int("n", 0, "particle count (default: highest id + 1)")
	bondsCmd.Flags().Bool("three", false, "file holds three-body terms")
	bondsCmd.Flags().String("duplicates", "skip", "duplicate policy: skip, reject or allow")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a trajectory frame or energy column as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().Int("frame", -1, "frame index (negative counts from the end)")
	svgCmd.Flags().String("series", "", "plot this energy column instead of a frame")
	svgCmd.Flags().Int("size", 600, "image height in pixels")
	svgCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "energy spectrum, displacement and bond statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&logLevel, "log-level", "info", "error, warn, info, debug or trace")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one configuration across a range of a parameter",
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().String("param", "dt", fmt.Sprintf("parameter to vary %v", automation.Params()))
	sweepCmd.Flags().Float64("from", 0.0005, "first value")
	sweepCmd.Flags().Float64("to", 0.01, "last value")
	sweepCmd.Flags().Int("count", 5, "number of values")
	sweepCmd.Flags().Int("replicas", 1, "seeds per value")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest value of a metric",
		RunE:  runTune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArray("grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().String("metric", "energy_drift", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, svgCmd, presetsCmd, benchCmd, bondsCmd, scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.IntVarP(&n, "particles", "n", config.DefaultN, "particle count")
	f.Float64Var(&box, "box", 0, "periodic box side (0 for open boundaries)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.Float64VarP(&temperature, "temperature", "T", 0, "initial temperature")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.StringVar(&integrator, "integrator", "verlet", "integrator: verlet or brownian")
	f.StringVar(&topology, "topology", "dimer", "generated topology")
	f.StringVar(&bondFile, "bonds", "", "bond file (i j r0 k)")
	f.StringVar(&threeFile, "three-bonds", "", "three-body file (i j k r0 kspring theta0)")
	f.StringVar(&initFile, "init", "", "initial positions file (x y z [type])")
	f.IntVar(&writeEvery, "write-every", config.DefaultWriteEvery, "steps between trajectory frames (0 disables)")
	f.IntVar(&measureEvery, "measure-every", config.DefaultMeasureEvery, "steps between energy samples (0 disables)")
	f.BoolVar(&checkFinite, "check-finite", false, "warn on non-finite forces")
	f.IntVar(&workers, "workers", 0, "kernel workers (0 for all CPUs)")
	f.StringVar(&logLevel, "log-level", "info", "error, warn, info, debug or trace")
}

// loadConfig layers preset, config file and explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("particles", func() { cfg.N = n })
	set("box", func() { cfg.Box = box })
	set("dt", func() { cfg.Dt = dt })
	set("steps", func() { cfg.Steps = steps })
	set("temperature", func() { cfg.Temperature = temperature })
	set("seed", func() { cfg.Seed = seed })
	set("integrator", func() { cfg.Integrator = integrator })
	set("topology", func() { cfg.Topology = topology })
	set("bonds", func() { cfg.Bonds = bondFile })
	set("three-bonds", func() { cfg.ThreeBonds = threeFile })
	set("init", func() { cfg.InitFile = initFile })
	set("write-every", func() { cfg.Output.WriteEvery = writeEvery })
	set("measure-every", func() { cfg.Output.MeasureEvery = measureEvery })
	set("check-finite", func() { cfg.CheckFinite = checkFinite })
	set("workers", func() { cfg.Workers = workers })
	set("log-level", func() { cfg.LogLevel = logLevel })

	return cfg, cfg.Validate()
}
