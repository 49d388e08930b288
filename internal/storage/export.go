package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/mdsim/internal/dynamo"
)

type ExportData struct {
	Run      RunMetadata     `json:"run"`
	Energies []dynamo.Sample `json:"energies"`
	Frames   []Frame         `json:"frames,omitempty"`
}

// ExportJSON writes a run's metadata and energy log, and optionally its
// trajectory, as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string, withFrames bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	energies, err := s.LoadEnergies(runID)
	if err != nil {
		return err
	}
	data := ExportData{Run: *meta, Energies: energies}
	if withFrames {
		if data.Frames, err = s.LoadTrajectory(runID); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
