package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/export"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/viz"
)

// renderSVG draws a stored frame, or with --series an energy column.
func renderSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	frameIdx, _ := cmd.Flags().GetInt("frame")
	series, _ := cmd.Flags().GetString("series")
	size, _ := cmd.Flags().GetInt("size")
	out, _ := cmd.Flags().GetString("out")

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if series != "" {
		get, ok := sampleColumns[strings.ToLower(series)]
		if !ok {
			return fmt.Errorf("unknown column: %s", series)
		}
		samples, err := st.LoadEnergies(runID)
		if err != nil {
			return err
		}
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = get(s)
		}
		svg = export.SeriesToSVG(values, 2*size, size, "#00ff88")
	} else {
		frames, err := st.LoadTrajectory(runID)
		if err != nil {
			return err
		}
		if len(frames) == 0 {
			return fmt.Errorf("run %s has no frames", runID)
		}
		if frameIdx < 0 {
			frameIdx += len(frames)
		}
		if frameIdx < 0 || frameIdx >= len(frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(frames))
		}
		svg = export.FrameToSVG(frames[frameIdx], runEdges(meta), nil, size, size)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw for run %s", runID)
	}

	if out == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(out, []byte(svg), 0644)
}

// runEdges rebuilds the run's bonded interactors from its stored config.
// A config that no longer builds leaves the frame without bonds.
func runEdges(meta *storage.RunMetadata) [][2]int {
	if meta.Config == nil {
		return nil
	}
	d, err := experiment.New(meta.Config, dynamo.DiscardLogger()).Build()
	if err != nil {
		return nil
	}
	return viz.EdgesOf(d.Interactors())
}
