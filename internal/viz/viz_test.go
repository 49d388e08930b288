package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/interactors"
	"github.com/san-kum/mdsim/internal/sim"
)

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.Dots()
	if w != 8 || h != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", w, h)
	}

	c.Set(-1, 3)
	c.Set(100, 0)
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Error("out-of-range dots should be ignored")
	}

	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot (%d,%d) not set", i, i)
		}
	}
	if c.IsSet(7, 0) {
		t.Error("unexpected dot off the diagonal")
	}

	c.Clear()
	if c.IsSet(3, 3) {
		t.Error("clear left dots behind")
	}
}

func TestCameraProjectsCentre(t *testing.T) {
	cam := NewCamera()
	x, y, ok := cam.Project(dynamo.Vec3{}, 40, 20)
	if !ok || x != 20 || y != 10 {
		t.Errorf("origin should land at the centre, got (%d,%d,%v)", x, y, ok)
	}

	cam.Target = dynamo.Vec3{X: 5}
	if x, _, _ := cam.Project(dynamo.Vec3{X: 5}, 40, 20); x != 20 {
		t.Errorf("target should land at the centre, got x=%d", x)
	}
}

func TestSparklineAndProgress(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := []rune(Sparkline([]float64{1, 2, 3, 4, 5}, 3)); len(got) != 3 {
		t.Errorf("sparkline should keep the last 3 values, got %q", string(got))
	}
	if !strings.Contains(ProgressBar(2, 5), "█████") {
		t.Error("progress bar should clamp to full")
	}
}

func newDimerDriver(t *testing.T) *sim.Driver {
	t.Helper()
	params := dynamo.Params{N: 2, Dt: 0.001}
	parts := dynamo.NewParticles(2)
	parts.SetPosition(1, dynamo.Vec3{X: 1.5}, 0)
	bf, err := interactors.NewBondedForces(parts, params, []interactors.Bond{{I: 0, J: 1, R0: 1, K: 10}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := sim.New(parts, params, integrators.NewTwoStepVelVerlet(parts, params, 0), nil)
	if err != nil {
		t.Fatal(err)
	}
	d.AddInteractor(bf)
	return d
}

func TestModelAdvancesOnTick(t *testing.T) {
	d := newDimerDriver(t)
	m := NewModel(d, "dimer", 25)
	if len(m.edges) != 1 {
		t.Fatalf("expected 1 edge, got %v", m.edges)
	}

	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = next.(Model)
	if m.sample.Step != 10 {
		t.Errorf("expected 10 steps after one tick, got %d", m.sample.Step)
	}

	for i := 0; i < 5; i++ {
		next, _ = m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	if d.Integrator().Steps() != 25 || m.running {
		t.Errorf("expected to stop at the target, got %d steps running=%v", d.Integrator().Steps(), m.running)
	}

	view := m.View()
	for _, want := range []string{"DIMER", "DONE", "Potential"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelKeys(t *testing.T) {
	m := NewModel(newDimerDriver(t), "dimer", 0)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if m.running {
		t.Error("space should pause")
	}

	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.sample.Step != 0 {
		t.Error("paused model should not advance")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	m = next.(Model)
	if m.perFrame != 20 {
		t.Errorf("expected 20 steps per frame, got %d", m.perFrame)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}
