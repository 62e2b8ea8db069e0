package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	configFile     = "config.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID           string    `json:"id"`
	Scene        string    `json:"scene"`
	Timestamp    time.Time `json:"timestamp"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Bodies       int       `json:"bodies"`
	Ticks        int       `json:"ticks"`
	Settled      bool      `json:"settled"`
	WaterDensity float64   `json:"water_density"`
	SampleEvery  int       `json:"sample_every"`
	Transitions  int       `json:"transitions"`
}

// Save writes metadata, the trajectory and the configuration of a finished
// run under a new run directory and returns its id.
func (s *Store) Save(scene string, sampleEvery int, cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(scene, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Scene:        scene,
		Timestamp:    now,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Bodies:       len(cfg.Bodies),
		Ticks:        result.Ticks,
		Settled:      result.Settled,
		WaterDensity: result.WaterDensity,
		SampleEvery:  sampleEvery,
		Transitions:  len(result.Transitions),
	}

	if err := writeRun(runDir, meta, cfg, result); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			return "", errors.Join(err, rmErr)
		}
		return "", err
	}
	return runID, nil
}

// writeRun fills a fresh run directory. Save removes the directory when it
// fails, so List never sees a half-written run.
func writeRun(runDir string, meta RunMetadata, cfg *config.Config, result *sim.Result) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	if err := gocsv.MarshalFile(&result.Samples, csvFile); err != nil {
		return fmt.Errorf("writing trajectory: %w", err)
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (s *Store) newRunDir(scene string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", scene, now.Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns all runs, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	samples := make([]sim.Sample, 0)
	if err := gocsv.UnmarshalFile(file, &samples); err != nil {
		return nil, fmt.Errorf("reading trajectory: %w", err)
	}
	return samples, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}
