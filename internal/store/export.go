package store

import (
	"encoding/json"
	"os"

	"github.com/kobrakid/partsim/internal/telemetry"
)

// ExportData is the single-file json form of a run, for handing to
// external plotting tools.
type ExportData struct {
	Scene      string                 `json:"scene"`
	Integrator string                 `json:"integrator"`
	Dt         float64                `json:"dt"`
	Seed       int64                  `json:"seed"`
	Particles  int                    `json:"particles"`
	Steps      int                    `json:"steps"`
	Records    []telemetry.StepRecord `json:"records"`
}

// ExportJSON writes a run's metadata and step records as one indented
// json document.
func ExportJSON(path string, meta RunMetadata, records []telemetry.StepRecord) error {
	data := ExportData{
		Scene:      meta.Scene,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Seed:       meta.Seed,
		Particles:  meta.Particles,
		Steps:      len(records),
		Records:    records,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
