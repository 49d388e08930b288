package integrators

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
)

var ErrNoWriter = errors.New("integrators: no snapshot writer configured")

// Base carries what every integrator shares: the particle handle, the
// interactor list, the step counter and the write path.
type Base struct {
	motion      dynamo.Motion
	params      dynamo.Params
	interactors []dynamo.Interactor
	steps       int

	backend       compute.Backend
	log           *log.Logger
	progressEvery int
	checkFinite   bool
	fault         error

	writer   dynamo.SnapshotWriter
	pool     *SnapshotPool
	writing  sync.WaitGroup
	writeErr error
}

func newBase(p *dynamo.Particles, params dynamo.Params, o options) Base {
	return Base{
		motion:        p.Motion(),
		params:        params,
		backend:       o.backend,
		log:           o.log,
		progressEvery: o.progressEvery,
		checkFinite:   o.checkFinite,
		writer:        o.writer,
		pool:          NewSnapshotPool(p.N()),
	}
}

// AddInteractor registers an interactor. Forces of all registered interactors
// are summed into the same buffer, in registration order.
func (b *Base) AddInteractor(it dynamo.Interactor) {
	b.interactors = append(b.interactors, it)
}

func (b *Base) Interactors() []dynamo.Interactor { return b.interactors }
func (b *Base) Steps() int                       { return b.steps }
func (b *Base) Params() dynamo.Params            { return b.params }
func (b *Base) Time() float64                    { return float64(b.steps) * b.params.Dt }

// SetWriter replaces the snapshot writer. Pending writes are flushed first.
func (b *Base) SetWriter(w dynamo.SnapshotWriter) error {
	err := b.Flush()
	b.writer = w
	return err
}

// TakeFault returns the last non-finite force seen by the finite check and
// clears it.
func (b *Base) TakeFault() error {
	err := b.fault
	b.fault = nil
	return err
}

func (b *Base) refreshForces() {
	for _, it := range b.interactors {
		it.SumForce()
	}
	if !b.checkFinite {
		return
	}
	if i := b.motion.FirstNonFinite(); i >= 0 {
		b.fault = &dynamo.StepError{
			Step:    b.steps,
			Time:    b.Time(),
			Wrapped: fmt.Errorf("%w: force on particle %d", dynamo.ErrNonFinite, i),
		}
		b.log.Warnln(b.fault)
	}
}

func (b *Base) tick() {
	b.steps++
	if b.progressEvery > 0 && b.steps%b.progressEvery == 0 {
		b.log.Infof("computing step %d", b.steps)
	}
}

// Write copies the current positions and hands them to the snapshot writer.
// With block=false the writer runs on its own goroutine; the next Write waits
// for it and returns any error it produced.
func (b *Base) Write(block bool) error {
	if b.writer == nil {
		return ErrNoWriter
	}
	if err := b.Flush(); err != nil {
		return err
	}

	snap := b.motion.Positions().CopyTo(b.pool.Get())
	step, params := b.steps, b.params

	if block {
		defer b.pool.Put(snap)
		return b.writer.WriteSnapshot(step, params, snap)
	}

	b.writing.Add(1)
	go func() {
		defer b.writing.Done()
		defer b.pool.Put(snap)
		if err := b.writer.WriteSnapshot(step, params, snap); err != nil {
			b.writeErr = fmt.Errorf("write step %d: %w", step, err)
		}
	}()
	return nil
}

// Flush waits for an in-flight write and returns its error, if any.
func (b *Base) Flush() error {
	b.writing.Wait()
	err := b.writeErr
	b.writeErr = nil
	return err
}
