// Package telemetry collects per-step scalar records from a running
// system and aggregates them into run summaries.
package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/kobrakid/partsim/internal/psys"
)

// StepRecord is one row of the per-step log.
type StepRecord struct {
	Step          int     `csv:"step"`
	Time          float64 `csv:"t"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	MeanSpeed     float64 `csv:"mean_speed"`
	MaxSpeed      float64 `csv:"max_speed"`
}

// Summary aggregates a run's records.
type Summary struct {
	Steps         int
	MeanKinetic   float64
	StdDevKinetic float64
	PeakKinetic   float64
	MeanSpeed     float64
	MaxSpeed      float64
}

// Collector implements sim.Observer, recording one StepRecord per step.
type Collector struct {
	records []StepRecord
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) OnStep(s psys.Buffer, step int, t float64) {
	rec := StepRecord{
		Step:          step,
		Time:          t,
		KineticEnergy: s.KineticEnergy(),
	}

	n := s.Count()
	if n > 0 {
		var sum, max float64
		for i := 0; i < n; i++ {
			sp := s.Speed(i)
			sum += sp
			if sp > max {
				max = sp
			}
		}
		rec.MeanSpeed = sum / float64(n)
		rec.MaxSpeed = max
	}

	c.records = append(c.records, rec)
}

func (c *Collector) Records() []StepRecord { return c.records }

// Summarize reduces the collected records with gonum's estimators.
func (c *Collector) Summarize() Summary {
	s := Summary{Steps: len(c.records)}
	if len(c.records) == 0 {
		return s
	}

	kinetic := make([]float64, len(c.records))
	speeds := make([]float64, len(c.records))
	for i, rec := range c.records {
		kinetic[i] = rec.KineticEnergy
		speeds[i] = rec.MeanSpeed
		if rec.KineticEnergy > s.PeakKinetic {
			s.PeakKinetic = rec.KineticEnergy
		}
		if rec.MaxSpeed > s.MaxSpeed {
			s.MaxSpeed = rec.MaxSpeed
		}
	}

	s.MeanKinetic = stat.Mean(kinetic, nil)
	s.StdDevKinetic = stat.StdDev(kinetic, nil)
	s.MeanSpeed = stat.Mean(speeds, nil)
	return s
}

// WriteCSV marshals the records with a header row.
func (c *Collector) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(c.records, w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// SaveCSV writes the records to a file.
func (c *Collector) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return c.WriteCSV(f)
}

// ReadCSV loads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]StepRecord, error) {
	var records []StepRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return records, nil
}
