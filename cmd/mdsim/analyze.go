package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/analysis"
	"github.com/san-kum/mdsim/internal/storage"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Name)

	samples, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}
	if len(samples) > 1 {
		interval := samples[1].Time - samples[0].Time
		kinetic := make([]float64, len(samples))
		for i, s := range samples {
			kinetic[i] = s.Kinetic
		}
		fmt.Printf("kinetic energy peak: %.6g cycles per unit time\n", analysis.DominantFrequency(kinetic, interval))
		fmt.Println(asciigraph.Plot(analysis.PowerSpectrum(kinetic),
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy power spectrum"),
		))
		fmt.Println()
	}

	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return nil
	}
	msd, err := analysis.MSD(frames)
	if err != nil {
		return err
	}
	if len(msd) > 1 {
		fmt.Println(asciigraph.Plot(msd,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("mean squared displacement per frame"),
		))
		fmt.Println()
	}

	edges := runEdges(meta)
	table := newTable("FRAME", "STEP", "BONDS", "MEAN", "STDDEV", "MIN", "MAX")
	for _, idx := range []int{0, len(frames) - 1} {
		stats, err := analysis.BondLengths(frames[idx], edges)
		if err != nil {
			return err
		}
		table.Append([]string{
			fmt.Sprintf("%d", idx),
			fmt.Sprintf("%d", frames[idx].Step),
			fmt.Sprintf("%d", stats.Count),
			fmt.Sprintf("%.6g", stats.Mean),
			fmt.Sprintf("%.3g", stats.StdDev),
			fmt.Sprintf("%.6g", stats.Min),
			fmt.Sprintf("%.6g", stats.Max),
		})
		if len(frames) == 1 {
			break
		}
	}
	table.Render()
	return nil
}
