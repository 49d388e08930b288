package integrators

import (
	"errors"
	"sync"
	"testing"

	"github.com/san-kum/mdsim/internal/dynamo"
)

type recordWriter struct {
	mu     sync.Mutex
	steps  []int
	frames [][]dynamo.Vec4
	fail   error
}

func (w *recordWriter) WriteSnapshot(step int, params dynamo.Params, pos []dynamo.Vec4) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail != nil {
		return w.fail
	}
	w.steps = append(w.steps, step)
	w.frames = append(w.frames, append([]dynamo.Vec4(nil), pos...))
	return nil
}

func TestWriteWithoutWriter(t *testing.T) {
	v := NewTwoStepVelVerlet(dynamo.NewParticles(1), dynamo.Params{N: 1, Dt: 0.1}, 0)
	if err := v.Write(true); !errors.Is(err, ErrNoWriter) {
		t.Errorf("expected ErrNoWriter, got %v", err)
	}
}

func TestWriteSnapshotsPositions(t *testing.T) {
	p := dynamo.NewParticles(2)
	p.SetPosition(1, dynamo.Vec3{X: 3}, 2)
	w := &recordWriter{}
	v := NewTwoStepVelVerlet(p, dynamo.Params{N: 2, Dt: 0.1}, 0, WithWriter(w))
	if err := v.SetVelocities([]dynamo.Vec3{{X: 1}, {}}); err != nil {
		t.Fatal(err)
	}

	for _, block := range []bool{true, false} {
		v.Update()
		if err := v.Write(block); err != nil {
			t.Fatalf("write (block=%v): %v", block, err)
		}
	}
	if err := v.Flush(); err != nil {
		t.Fatal(err)
	}

	if len(w.frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(w.frames))
	}
	for i, frame := range w.frames {
		if frame[1] != (dynamo.Vec4{X: 3, W: 2}) {
			t.Errorf("frame %d: particle 1 = %+v", i, frame[1])
		}
	}
	if w.frames[0][0].X == w.frames[1][0].X {
		t.Error("frames should differ after moving particle 0")
	}
}

func TestAsyncWriteErrorSurfacesOnNextWrite(t *testing.T) {
	boom := errors.New("disk full")
	w := &recordWriter{fail: boom}
	v := NewTwoStepVelVerlet(dynamo.NewParticles(1), dynamo.Params{N: 1, Dt: 0.1}, 0, WithWriter(w))

	if err := v.Write(false); err != nil {
		t.Fatalf("async write should not fail immediately: %v", err)
	}
	if err := v.Write(false); !errors.Is(err, boom) {
		t.Errorf("expected %v from next write, got %v", boom, err)
	}
	if err := v.Flush(); err != nil {
		t.Errorf("error should be reported once, got %v", err)
	}
}

type nanInteractor struct{ sink dynamo.ForceSink }

func (n nanInteractor) SumForce()          { n.sink.Add(0, dynamo.Vec3{X: nan()}, 0) }
func (n nanInteractor) SumEnergy() float64 { return 0 }
func (n nanInteractor) SumVirial() float64 { return 0 }

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestFiniteCheckRecordsFault(t *testing.T) {
	p := dynamo.NewParticles(2)
	v := NewTwoStepVelVerlet(p, dynamo.Params{N: 2, Dt: 0.1}, 0, WithFiniteCheck(true))
	v.AddInteractor(nanInteractor{sink: p.ForceSink()})

	v.Update()
	if v.Steps() != 1 {
		t.Errorf("step should complete, got %d steps", v.Steps())
	}
	err := v.TakeFault()
	if !errors.Is(err, dynamo.ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	var se *dynamo.StepError
	if !errors.As(err, &se) || se.Step != 1 {
		t.Errorf("expected StepError at step 1, got %v", err)
	}
	if v.TakeFault() != nil {
		t.Error("fault should be cleared once taken")
	}
}

func TestSnapshotPoolDropsWrongSize(t *testing.T) {
	pool := NewSnapshotPool(4)
	s := pool.Get()
	if len(s) != 4 {
		t.Fatalf("expected length 4, got %d", len(s))
	}
	pool.Put(s)
	pool.Put(make([]dynamo.Vec4, 2))
	if got := pool.Get(); len(got) != 4 {
		t.Errorf("pool returned slice of length %d", len(got))
	}
}
