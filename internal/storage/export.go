package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/ballsim/internal/sim"
)

// ExportData is the JSON form of a stored run.
type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

func (s *Store) exportData(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Samples: samples}, nil
}

// ExportJSON writes metadata and samples of a run as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.exportData(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON into a new file at path.
func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}

// ExportCSV writes the run's samples as CSV with a header row.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", runID)
	}
	return gocsv.Marshal(samples, w)
}
