package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/storage"
)

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	table := newTable("ID", "NAME", "N", "INTEGRATOR", "STEPS", "FRAMES", "ELAPSED", "DATE")
	for _, r := range runs {
		n, integ := "-", "-"
		if r.Config != nil {
			n = fmt.Sprintf("%d", r.Config.N)
			integ = r.Config.Integrator
		}
		table.Append([]string{
			r.ID,
			r.Name,
			n,
			integ,
			fmt.Sprintf("%d", r.Steps),
			fmt.Sprintf("%d", r.Frames),
			fmt.Sprintf("%.2fs", r.Elapsed),
			r.Timestamp.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}

var sampleColumns = map[string]func(dynamo.Sample) float64{
	"kinetic":     func(s dynamo.Sample) float64 { return s.Kinetic },
	"potential":   func(s dynamo.Sample) float64 { return s.Potential },
	"total":       dynamo.Sample.Total,
	"virial":      func(s dynamo.Sample) float64 { return s.Virial },
	"temperature": func(s dynamo.Sample) float64 { return s.Temperature },
	"pressure":    func(s dynamo.Sample) float64 { return s.Pressure },
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	columns, _ := cmd.Flags().GetStringSlice("columns")

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no energy samples", runID)
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Name)
	fmt.Printf("samples: %d, t = %g .. %g\n\n", len(samples), samples[0].Time, samples[len(samples)-1].Time)

	for _, col := range columns {
		get, ok := sampleColumns[strings.ToLower(col)]
		if !ok {
			return fmt.Errorf("unknown column: %s", col)
		}
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = get(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetBool("frames")
	out, _ := cmd.Flags().GetString("out")

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return storage.New(dataDir).ExportJSON(w, args[0], frames)
}

func listPresets(cmd *cobra.Command, args []string) error {
	table := newTable("PRESET", "N", "BOX", "INTEGRATOR", "TOPOLOGY", "DT", "STEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		table.Append([]string{
			name,
			fmt.Sprintf("%d", p.N),
			fmt.Sprintf("%g", p.Box),
			p.Integrator,
			p.Topology,
			fmt.Sprintf("%g", p.Dt),
			fmt.Sprintf("%d", p.Steps),
		})
	}
	table.Render()
	return nil
}
