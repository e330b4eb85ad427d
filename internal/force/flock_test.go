package force

import (
	"math"
	"testing"

	"github.com/kobrakid/partsim/internal/psys"
)

func flockPair(t *testing.T, sep float64) (psys.Buffer, *Flock) {
	t.Helper()
	s := psys.NewBuffer(2)
	for i := 0; i < 2; i++ {
		s.Set(i, psys.Mass, 1)
	}
	s.Set(1, psys.PosX, sep)

	f, err := NewFlock(1.0, 4.0, math.Pi/4, math.Pi/2, Indices(2))
	if err != nil {
		t.Fatal(err)
	}
	return s, f
}

func TestNewFlock_Validation(t *testing.T) {
	tests := []struct {
		name                 string
		inner, outer         float64
		binocular, monocular float64
		targets              []int
		ok                   bool
	}{
		{"valid", 1, 4, math.Pi / 4, math.Pi / 2, Indices(2), true},
		{"inverted radii", 4, 1, math.Pi / 4, math.Pi / 2, Indices(2), false},
		{"zero inner", 0, 4, math.Pi / 4, math.Pi / 2, Indices(2), false},
		{"inverted angles", 1, 4, math.Pi / 2, math.Pi / 4, Indices(2), false},
		{"angle beyond pi", 1, 4, math.Pi / 4, 4.0, Indices(2), false},
		{"single target", 1, 4, math.Pi / 4, math.Pi / 2, Indices(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFlock(tt.inner, tt.outer, tt.binocular, tt.monocular, tt.targets)
			if (err == nil) != tt.ok {
				t.Errorf("NewFlock err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestFlock_BeyondOuterRadiusIgnored(t *testing.T) {
	s, f := flockPair(t, 10) // outer radius is 4
	f.Apply(s, nil)
	for i := 0; i < 2; i++ {
		if s.At(i, psys.ForX) != 0 || s.At(i, psys.ForY) != 0 || s.At(i, psys.ForZ) != 0 {
			t.Fatalf("particle %d influenced beyond visual range", i)
		}
	}
}

func TestFlock_CloseNeighborRepels(t *testing.T) {
	s, f := flockPair(t, 0.5) // well inside the inner radius
	f.WeightMatch = 0
	f.WeightCenter = 0
	f.Apply(s, nil)

	if s.At(0, psys.ForX) >= 0 {
		t.Errorf("avoidance on particle 0 = %v, want repulsion (negative x)", s.At(0, psys.ForX))
	}
	if s.At(1, psys.ForX) <= 0 {
		t.Errorf("avoidance on particle 1 = %v, want repulsion (positive x)", s.At(1, psys.ForX))
	}
}

func TestFlock_VelocityMatching(t *testing.T) {
	s, f := flockPair(t, 2)
	s.Set(1, psys.VelY, 3) // neighbor moving +y, separation is +x so angle is pi/2
	f.WeightAvoid = 0
	f.WeightCenter = 0
	f.Apply(s, nil)

	if s.At(0, psys.ForY) <= 0 {
		t.Errorf("matching force y = %v, want positive (toward neighbor velocity)", s.At(0, psys.ForY))
	}
}

func TestFlock_CenteringAttracts(t *testing.T) {
	s, f := flockPair(t, 2)
	f.WeightAvoid = 0
	f.WeightMatch = 0
	f.Apply(s, nil)

	if s.At(0, psys.ForX) <= 0 {
		t.Errorf("centering on particle 0 = %v, want attraction (+x)", s.At(0, psys.ForX))
	}
}

func TestFlock_DistanceFalloff(t *testing.T) {
	// same setup twice, neighbor farther away in the second: the ramp
	// weight must shrink the contribution
	near, f1 := flockPair(t, 1.5)
	f1.WeightAvoid, f1.WeightMatch = 0, 0
	f1.Apply(near, nil)

	far, f2 := flockPair(t, 3.5)
	f2.WeightAvoid, f2.WeightMatch = 0, 0
	f2.Apply(far, nil)

	// centering is proportional to kd*sep; normalize by separation
	wNear := near.At(0, psys.ForX) / 1.5
	wFar := far.At(0, psys.ForX) / 3.5
	if wFar >= wNear {
		t.Errorf("falloff weight near=%v far=%v, want near > far", wNear, wFar)
	}
}

func TestFlock_NoNaNAtCoincidence(t *testing.T) {
	s, f := flockPair(t, 0)
	f.Apply(s, nil)
	if !s.IsValid() {
		t.Fatal("coincident boids produced NaN")
	}
}
