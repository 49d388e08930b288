package integrators

import (
	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
)

type options struct {
	backend       compute.Backend
	log           *log.Logger
	writer        dynamo.SnapshotWriter
	seed          int64
	progressEvery int
	checkFinite   bool
}

type Option func(*options)

func WithBackend(b compute.Backend) Option {
	return func(o *options) { o.backend = b }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithWriter sets the destination of Write.
func WithWriter(w dynamo.SnapshotWriter) Option {
	return func(o *options) { o.writer = w }
}

// WithSeed seeds the random source used for initial velocities and noise.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithProgressEvery logs a progress line every n steps. Zero disables it.
func WithProgressEvery(n int) Option {
	return func(o *options) { o.progressEvery = n }
}

// WithFiniteCheck scans the force buffer after every refresh and warns on NaN or Inf.
func WithFiniteCheck(on bool) Option {
	return func(o *options) { o.checkFinite = on }
}

func buildOptions(opts []Option) options {
	o := options{
		backend:       compute.GetBackend(),
		log:           dynamo.DiscardLogger(),
		seed:          1,
		progressEvery: 1000,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
