package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and stepping.
var (
	// ErrInvalidTopology indicates a bond referencing a particle outside [0, N) or itself.
	ErrInvalidTopology = errors.New("dynamo: invalid topology")

	// ErrMalformedInputLine indicates a bond or position file line that does not parse.
	ErrMalformedInputLine = errors.New("dynamo: malformed input line")

	// ErrConstruction indicates a CSR index that violates its invariants after build.
	ErrConstruction = errors.New("dynamo: construction failure")

	// ErrNonFinite indicates a NaN or Inf force after a force pass.
	ErrNonFinite = errors.New("dynamo: non-finite force")

	// ErrInvalidParams indicates simulation parameters outside their valid range.
	ErrInvalidParams = errors.New("dynamo: invalid parameters")
)

// TopologyError reports the offending bond of a rejected bond list.
type TopologyError struct {
	Index  int
	IDs    []int
	N      int
	Reason string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%v: bond %d %v: %s (n=%d)", ErrInvalidTopology, e.Index, e.IDs, e.Reason, e.N)
}

func (e *TopologyError) Unwrap() error { return ErrInvalidTopology }

// LineError wraps a parse failure with its file position.
type LineError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v: %s:%d: %q: %v", ErrMalformedInputLine, e.Path, e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() []error { return []error{ErrMalformedInputLine, e.Err} }

// StepError wraps an error with the step it occurred on.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
