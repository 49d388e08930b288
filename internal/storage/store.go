package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	energiesFile   = "energies.csv"
	trajectoryFile = "trajectory.xyz"
)

var energiesHeader = []string{"step", "time", "kinetic", "potential", "total", "virial", "temperature", "pressure"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Config    *config.Config     `json:"config"`
	Steps     int                `json:"steps"`
	Frames    int                `json:"frames"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Create opens a new run directory with an empty trajectory and energy log.
func (s *Store) Create(name string, cfg *config.Config) (*Run, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	return openRun(runDir, RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Config:    cfg,
	})
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadEnergies reads back the energy log of a run.
func (s *Store) LoadEnergies(runID string) ([]dynamo.Sample, error) {
	path := filepath.Join(s.baseDir, runID, energiesFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(energiesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Sample{}, nil
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		s, err := parseSample(record)
		if err != nil {
			return nil, &dynamo.LineError{Path: path, Line: i + 2, Text: fmt.Sprint(record), Err: err}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// LoadTrajectory reads every frame written for a run.
func (s *Store) LoadTrajectory(runID string) ([]Frame, error) {
	path := filepath.Join(s.baseDir, runID, trajectoryFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTrajectory(file, path)
}

func parseSample(record []string) (dynamo.Sample, error) {
	step, err := strconv.Atoi(record[0])
	if err != nil {
		return dynamo.Sample{}, err
	}
	vals := make([]float64, len(record)-1)
	for i, field := range record[1:] {
		if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
			return dynamo.Sample{}, err
		}
	}
	// vals: time kinetic potential total virial temperature pressure
	return dynamo.Sample{
		Step:        step,
		Time:        vals[0],
		Kinetic:     vals[1],
		Potential:   vals[2],
		Virial:      vals[4],
		Temperature: vals[5],
		Pressure:    vals[6],
	}, nil
}

func formatSample(s dynamo.Sample) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(s.Step), f(s.Time), f(s.Kinetic), f(s.Potential), f(s.Total()),
		f(s.Virial), f(s.Temperature), f(s.Pressure),
	}
}

var errClosed = errors.New("storage: run already closed")
