package compute

// Backend runs data-parallel kernels. Every call blocks until all invocations have
// completed, so consecutive calls form the phase boundaries of a timestep.
type Backend interface {
	Name() string
	Workers() int
	// ForEach calls kernel(i) exactly once for every i in [0, n).
	ForEach(n int, kernel func(i int))
	// ForEachErr is ForEach for kernels that can fail. It returns the first error.
	ForEachErr(n int, kernel func(i int) error) error
	// Sum reduces kernel(i) over [0, n). The result does not depend on the number
	// of workers.
	Sum(n int, kernel func(i int) float64) float64
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	return NewCPUBackend(0)
}

// Serial returns a single-worker backend. Handy for tests and for tiny systems.
func Serial() Backend {
	return NewCPUBackend(1)
}
