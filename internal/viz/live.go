package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/interactors"
	"github.com/san-kum/mdsim/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	maxPerFrame     = 1000
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type faulter interface {
	TakeFault() error
}

// Model steps a driver on every tick and renders it.
type Model struct {
	driver   *sim.Driver
	title    string
	edges    [][2]int
	target   int
	perFrame int

	running  bool
	showHelp bool
	canvas   *Canvas
	camera   *Camera

	sample      dynamo.Sample
	initial     float64
	energy      []float64
	temperature []float64
	faults      int
	lastFault   error
}

// NewModel wraps d. target is the step count at which the model pauses; zero
// runs until quit.
func NewModel(d *sim.Driver, title string, target int) Model {
	m := Model{
		driver:      d,
		title:       title,
		edges:       EdgesOf(d.Interactors()),
		target:      target,
		perFrame:    10,
		running:     true,
		canvas:      NewCanvas(width, height),
		camera:      NewCamera(),
		energy:      make([]float64, 0, historyCapacity),
		temperature: make([]float64, 0, historyCapacity),
	}
	m.camera.Frame(d.Particles().Positions())
	m.sample = d.Measure()
	m.initial = m.sample.Total()
	m.record()
	return m
}

// EdgesOf collects the particle pairs joined by two-body bonds.
func EdgesOf(its []dynamo.Interactor) [][2]int {
	var edges [][2]int
	for _, it := range its {
		bf, ok := it.(*interactors.BondedForces)
		if !ok {
			continue
		}
		for _, b := range bf.Bonds() {
			edges = append(edges, [2]int{b.I, b.J})
		}
	}
	return edges
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "f":
			m.camera.Frame(m.driver.Particles().Positions())
		case "]":
			m.perFrame = min(maxPerFrame, m.perFrame*2)
		case "[":
			m.perFrame = max(1, m.perFrame/2)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) done() bool {
	return m.target > 0 && m.driver.Integrator().Steps() >= m.target
}

// advance runs up to perFrame steps and takes one sample.
func (m *Model) advance() {
	integ := m.driver.Integrator()
	for i := 0; i < m.perFrame && !m.done(); i++ {
		integ.Update()
		if f, ok := integ.(faulter); ok {
			if err := f.TakeFault(); err != nil {
				m.faults++
				m.lastFault = err
			}
		}
	}
	if m.done() {
		m.running = false
	}
	m.sample = m.driver.Measure()
	m.record()
}

func (m *Model) record() {
	m.energy = appendCapped(m.energy, m.sample.Total())
	m.temperature = appendCapped(m.temperature, m.sample.Temperature)
}

func appendCapped(s []float64, v float64) []float64 {
	if len(s) == historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m *Model) draw() {
	m.canvas.Clear()
	pos := m.driver.Particles().Positions()
	sw, sh := m.canvas.Dots()

	for _, e := range m.edges {
		x0, y0, ok0 := m.camera.Project(pos.Pos(e[0]), sw, sh)
		x1, y1, ok1 := m.camera.Project(pos.Pos(e[1]), sw, sh)
		if ok0 || ok1 {
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}
	for i := 0; i < pos.Len(); i++ {
		if x, y, ok := m.camera.Project(pos.Pos(i), sw, sh); ok {
			m.canvas.DrawDisc(x, y, 1)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.lastFault != nil:
		return StatusFault.Render(fmt.Sprintf("NON-FINITE FORCES (%d)", m.faults))
	case m.done():
		return StatusPaused.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	m.draw()
	canvasView := CanvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sample.Step))
	row("Time", fmt.Sprintf("%.4f", m.sample.Time))
	row("Kinetic", fmt.Sprintf("%.6g", m.sample.Kinetic))
	row("Potential", fmt.Sprintf("%.6g", m.sample.Potential))
	row("Total", fmt.Sprintf("%.6g", m.sample.Total()))
	row("Drift", fmt.Sprintf("%.3e", relDrift(m.initial, m.sample.Total())))
	row("Temperature", fmt.Sprintf("%.4f", m.sample.Temperature))
	if m.driver.Params().Periodic() {
		row("Pressure", fmt.Sprintf("%.4f", m.sample.Pressure))
	}
	row("Steps/frame", fmt.Sprintf("%d", m.perFrame))
	row("Backend", compute.GetBackend().Name())
	s.WriteString(MetricLabel.Render("T history") + Sparkline(m.temperature, 24) + "\n")
	if m.target > 0 {
		s.WriteString(MetricLabel.Render("Progress") + ProgressBar(float64(m.sample.Step)/float64(m.target), 24) + "\n")
	}

	s.WriteString(KeyHint.Render("SP:Pause F:Frame +/-:Zoom xyz:Rotate [ ]:Speed ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.Render(s.String()))
	if m.showHelp {
		return Panel.Render(helpText) + "\n" + main
	}
	return main
}

const helpText = `Space    pause / resume
f        frame particles
x y z    rotate (shift reverses)
+ -      zoom
[ ]      halve / double steps per frame
q        quit`

func relDrift(initial, current float64) float64 {
	if initial == 0 {
		return current
	}
	return (current - initial) / initial
}
