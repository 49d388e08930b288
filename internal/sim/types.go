package sim

import (
	"time"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// Observer receives every measured sample. An error aborts the run.
type Observer interface {
	Observe(s dynamo.Sample) error
}

type ObserverFunc func(s dynamo.Sample) error

func (f ObserverFunc) Observe(s dynamo.Sample) error { return f(s) }

type Config struct {
	Steps        int
	WriteEvery   int
	MeasureEvery int
	// Async hands snapshots to the writer without waiting for it.
	Async       bool
	StopOnFault bool
}

type Result struct {
	Steps   int
	Samples []dynamo.Sample
	Metrics map[string]float64
	Faults  []error
	Elapsed time.Duration
}

// Final returns the last measured sample.
func (r *Result) Final() dynamo.Sample {
	if len(r.Samples) == 0 {
		return dynamo.Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

type faulter interface {
	TakeFault() error
}

type flusher interface {
	Flush() error
}
