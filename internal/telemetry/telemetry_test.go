package telemetry

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/kobrakid/partsim/internal/psys"
)

func movingBuffer(n int, speed float64) psys.Buffer {
	b := psys.NewBuffer(n)
	for i := 0; i < n; i++ {
		b.Set(i, psys.VelX, speed)
		b.Set(i, psys.Mass, 1)
	}
	return b
}

func TestCollectorRecords(t *testing.T) {
	c := NewCollector()
	c.OnStep(movingBuffer(4, 2), 0, 1.0/60.0)
	c.OnStep(movingBuffer(4, 3), 1, 2.0/60.0)

	recs := c.Records()
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	// 4 particles, mass 1, speed 2: KE = 4 * 0.5 * 1 * 4 = 8
	if math.Abs(recs[0].KineticEnergy-8) > 1e-12 {
		t.Errorf("step 0 KE = %v, want 8", recs[0].KineticEnergy)
	}
	if recs[0].MeanSpeed != 2 || recs[0].MaxSpeed != 2 {
		t.Errorf("step 0 speeds = %v/%v, want 2/2", recs[0].MeanSpeed, recs[0].MaxSpeed)
	}
	if recs[1].Step != 1 {
		t.Errorf("step index = %d, want 1", recs[1].Step)
	}
}

func TestSummarize(t *testing.T) {
	c := NewCollector()
	c.OnStep(movingBuffer(2, 1), 0, 1.0/60.0)
	c.OnStep(movingBuffer(2, 3), 1, 2.0/60.0)

	s := c.Summarize()
	if s.Steps != 2 {
		t.Fatalf("steps = %d, want 2", s.Steps)
	}
	// KE: 1 and 9, mean 5
	if math.Abs(s.MeanKinetic-5) > 1e-12 {
		t.Errorf("mean KE = %v, want 5", s.MeanKinetic)
	}
	if math.Abs(s.PeakKinetic-9) > 1e-12 {
		t.Errorf("peak KE = %v, want 9", s.PeakKinetic)
	}
	if math.Abs(s.MaxSpeed-3) > 1e-12 {
		t.Errorf("max speed = %v, want 3", s.MaxSpeed)
	}
	// sample stddev of {1, 9}
	if math.Abs(s.StdDevKinetic-math.Sqrt(32)) > 1e-12 {
		t.Errorf("stddev KE = %v, want %v", s.StdDevKinetic, math.Sqrt(32))
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := NewCollector().Summarize()
	if s.Steps != 0 || s.MeanKinetic != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestCSVRoundtrip(t *testing.T) {
	c := NewCollector()
	c.OnStep(movingBuffer(3, 1.5), 0, 1.0/60.0)
	c.OnStep(movingBuffer(3, 2.5), 1, 2.0/60.0)

	var buf bytes.Buffer
	if err := c.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.Contains(header, "kinetic_energy") {
		t.Errorf("header = %q, missing kinetic_energy column", header)
	}

	recs, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("roundtrip records = %d, want 2", len(recs))
	}
	if recs[1].Step != 1 || math.Abs(recs[1].MeanSpeed-2.5) > 1e-9 {
		t.Errorf("roundtrip record = %+v", recs[1])
	}
}
