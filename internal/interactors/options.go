package interactors

import (
	"github.com/gologme/log"

	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// DuplicatePolicy decides what happens to a bond whose unordered particle set
// already appeared earlier in the list.
type DuplicatePolicy int

const (
	// DuplicateSkip drops the repeat and logs a warning.
	DuplicateSkip DuplicatePolicy = iota
	// DuplicateReject fails construction with ErrInvalidTopology.
	DuplicateReject
	// DuplicateAllow keeps every record as given.
	DuplicateAllow
)

type options struct {
	backend    compute.Backend
	log        *log.Logger
	duplicates DuplicatePolicy
	bond       BondPotential
	three      ThreePotential
}

type Option func(*options)

func WithBackend(b compute.Backend) Option {
	return func(o *options) { o.backend = b }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.duplicates = p }
}

func WithBondPotential(p BondPotential) Option {
	return func(o *options) { o.bond = p }
}

func WithThreePotential(p ThreePotential) Option {
	return func(o *options) { o.three = p }
}

func buildOptions(opts []Option) options {
	o := options{
		backend:    compute.GetBackend(),
		log:        dynamo.DiscardLogger(),
		duplicates: DuplicateSkip,
		bond:       HarmonicSpring,
		three:      HarmonicAngle,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
