package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// Run is an open run directory. It implements dynamo.SnapshotWriter for the
// trajectory and records samples into energies.csv.
type Run struct {
	dir  string
	meta RunMetadata

	mu       sync.Mutex
	trajFile *os.File
	traj     *bufio.Writer
	csvFile  *os.File
	csv      *csv.Writer
	closed   bool
}

func openRun(dir string, meta RunMetadata) (*Run, error) {
	trajFile, err := os.Create(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return nil, err
	}
	csvFile, err := os.Create(filepath.Join(dir, energiesFile))
	if err != nil {
		trajFile.Close()
		return nil, err
	}

	r := &Run{
		dir:      dir,
		meta:     meta,
		trajFile: trajFile,
		traj:     bufio.NewWriter(trajFile),
		csvFile:  csvFile,
		csv:      csv.NewWriter(csvFile),
	}
	if err := r.csv.Write(energiesHeader); err != nil {
		r.closeFiles()
		return nil, err
	}
	return r, nil
}

func (r *Run) ID() string  { return r.meta.ID }
func (r *Run) Dir() string { return r.dir }

// WriteSnapshot appends one trajectory frame.
func (r *Run) WriteSnapshot(step int, params dynamo.Params, pos []dynamo.Vec4) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errClosed
	}
	if err := writeFrame(r.traj, step, params.L, pos); err != nil {
		return err
	}
	r.meta.Frames++
	return r.traj.Flush()
}

// Observe appends a row to the energy log.
func (r *Run) Observe(s dynamo.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errClosed
	}
	if err := r.csv.Write(formatSample(s)); err != nil {
		return err
	}
	r.csv.Flush()
	return r.csv.Error()
}

// Close flushes both logs and writes metadata.json.
func (r *Run) Close(steps int, elapsed time.Duration, metrics map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errClosed
	}
	r.closed = true

	r.meta.Steps = steps
	r.meta.Elapsed = elapsed.Seconds()
	r.meta.Metrics = metrics

	err := r.closeFiles()
	if werr := r.writeMetadata(); werr != nil {
		err = errors.Join(err, werr)
	}
	return err
}

func (r *Run) closeFiles() error {
	r.csv.Flush()
	return errors.Join(
		r.csv.Error(),
		r.traj.Flush(),
		r.trajFile.Close(),
		r.csvFile.Close(),
	)
}

func (r *Run) writeMetadata() error {
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}
