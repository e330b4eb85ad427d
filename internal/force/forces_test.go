package force

import (
	"math"
	"math/rand"
	"testing"

	"github.com/kobrakid/partsim/internal/psys"
)

func TestIndices(t *testing.T) {
	got := Indices(3)
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("Indices(3) = %v", got)
	}
}

func TestGravity_MassScaled(t *testing.T) {
	s := psys.NewBuffer(2)
	s.Set(0, psys.Mass, 1)
	s.Set(1, psys.Mass, 3)

	g, err := NewGravity(9.8, Indices(2))
	if err != nil {
		t.Fatal(err)
	}
	g.Apply(s, nil)

	if math.Abs(s.At(0, psys.ForZ)+9.8) > 1e-12 {
		t.Errorf("unit mass force = %v, want -9.8", s.At(0, psys.ForZ))
	}
	if math.Abs(s.At(1, psys.ForZ)+3*9.8) > 1e-12 {
		t.Errorf("3x mass force = %v, want %v", s.At(1, psys.ForZ), -3*9.8)
	}
	if s.At(0, psys.ForX) != 0 || s.At(0, psys.ForY) != 0 {
		t.Error("gravity leaked into horizontal axes")
	}
}

func TestGravity_Validation(t *testing.T) {
	if _, err := NewGravity(-1, Indices(1)); err == nil {
		t.Error("negative magnitude accepted")
	}
	if _, err := NewGravity(9.8, nil); err == nil {
		t.Error("empty target set accepted")
	}
}

func TestDrag_OpposesVelocity(t *testing.T) {
	s := psys.NewBuffer(1)
	s.Set(0, psys.VelX, 2)
	s.Set(0, psys.VelY, -3)

	d, err := NewDrag([3]float64{1, 1, 1}, 0.5, Indices(1))
	if err != nil {
		t.Fatal(err)
	}
	d.Apply(s, nil)

	if math.Abs(s.At(0, psys.ForX)+1) > 1e-12 {
		t.Errorf("drag x = %v, want -1", s.At(0, psys.ForX))
	}
	if math.Abs(s.At(0, psys.ForY)-1.5) > 1e-12 {
		t.Errorf("drag y = %v, want 1.5", s.At(0, psys.ForY))
	}
}

func TestWind_BoundedAndResampled(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := psys.NewBuffer(1)

	w, err := NewWind([3]float64{1, 0, 0}, 2, Indices(1))
	if err != nil {
		t.Fatal(err)
	}

	prev := -1.0
	same := 0
	for step := 0; step < 20; step++ {
		s.ZeroForces()
		w.Apply(s, rng)
		fx := s.At(0, psys.ForX)
		if fx < 0 || fx > 2 {
			t.Fatalf("wind force %v outside [0, mag]", fx)
		}
		if fx == prev {
			same++
		}
		prev = fx
	}
	if same > 2 {
		t.Error("wind impulse does not look resampled per step")
	}
}

func TestSuperposition_OrderIndependent(t *testing.T) {
	build := func() (psys.Buffer, []psys.Force) {
		s := psys.NewBuffer(1)
		s.Set(0, psys.Mass, 2)
		s.Set(0, psys.VelX, 1)
		g, _ := NewGravity(9.8, Indices(1))
		d, _ := NewDrag([3]float64{1, 1, 1}, 0.3, Indices(1))
		return s, []psys.Force{g, d}
	}

	a, fa := build()
	fa[0].Apply(a, nil)
	fa[1].Apply(a, nil)

	b, fb := build()
	fb[1].Apply(b, nil)
	fb[0].Apply(b, nil)

	for f := psys.ForX; f <= psys.ForZ; f++ {
		if a.At(0, f) != b.At(0, f) {
			t.Errorf("field %s: A-then-B %v != B-then-A %v",
				psys.FieldName(f), a.At(0, f), b.At(0, f))
		}
	}
}
