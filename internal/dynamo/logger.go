package dynamo

import (
	"io"
	"os"

	"github.com/gologme/log"
)

// NewLogger returns a logger writing to stderr with levels up to and including level.
func NewLogger(level string) *log.Logger {
	l := log.New(os.Stderr, "", log.Flags())
	for _, lvl := range levelsUpTo(level) {
		l.EnableLevel(lvl)
	}
	return l
}

// DiscardLogger returns a logger with every level disabled.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func levelsUpTo(level string) []string {
	order := []string{"error", "warn", "info", "debug", "trace"}
	for i, l := range order {
		if l == level {
			return order[:i+1]
		}
	}
	return order[:3]
}
