// Package store persists headless runs on disk: one directory per run
// with json metadata next to a csv step log.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kobrakid/partsim/internal/telemetry"
)

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
	ID         string    `json:"id"`
	Scene      string    `json:"scene"`
	Timestamp  time.Time `json:"timestamp"`
	Seed       int64     `json:"seed"`
	Dt         float64   `json:"dt"`
	Steps      int       `json:"steps"`
	Particles  int       `json:"particles"`
	Integrator string    `json:"integrator"`

	MeanKinetic float64 `json:"mean_kinetic"`
	PeakKinetic float64 `json:"peak_kinetic"`
	MaxSpeed    float64 `json:"max_speed"`
}

// Save writes a run directory named <scene>_<unix time> and returns the
// run id. The summary block of meta is filled from the collector.
func (s *Store) Save(meta RunMetadata, c *telemetry.Collector) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	sum := c.Summarize()
	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = sum.Steps
	meta.MeanKinetic = sum.MeanKinetic
	meta.PeakKinetic = sum.PeakKinetic
	meta.MaxSpeed = sum.MaxSpeed

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := c.SaveCSV(filepath.Join(runDir, "steps.csv")); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns metadata for every run under the base directory. Entries
// with unreadable metadata are skipped.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads back a run's step log.
func (s *Store) LoadRecords(runID string) ([]telemetry.StepRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "steps.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return telemetry.ReadCSV(f)
}
