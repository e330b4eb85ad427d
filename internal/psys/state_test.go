package psys

import (
	"math"
	"testing"
)

func TestBuffer_Count(t *testing.T) {
	b := NewBuffer(7)
	if b.Count() != 7 {
		t.Errorf("Count() = %d, want 7", b.Count())
	}
	if len(b) != 7*RecordSize {
		t.Errorf("len = %d, want %d", len(b), 7*RecordSize)
	}
}

func TestBuffer_Clone(t *testing.T) {
	b := NewBuffer(2)
	b.Set(1, PosX, 3.5)
	c := b.Clone()
	c.Set(1, PosX, -1)
	if b.At(1, PosX) != 3.5 {
		t.Error("Clone did not create an independent copy")
	}
}

func TestBuffer_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		poke  float64
		valid bool
	}{
		{"zeros", 0, true},
		{"normal", 42.0, true},
		{"NaN", math.NaN(), false},
		{"+Inf", math.Inf(1), false},
		{"-Inf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(3)
			b.Set(2, VelY, tt.poke)
			if got := b.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestBuffer_ZeroForces(t *testing.T) {
	b := NewBuffer(2)
	for i := 0; i < 2; i++ {
		b.Set(i, ForX, 1)
		b.Set(i, ForY, 2)
		b.Set(i, ForZ, 3)
		b.Set(i, VelX, 9)
	}
	b.ZeroForces()
	for i := 0; i < 2; i++ {
		if b.At(i, ForX) != 0 || b.At(i, ForY) != 0 || b.At(i, ForZ) != 0 {
			t.Errorf("particle %d force accumulator not cleared", i)
		}
		if b.At(i, VelX) != 9 {
			t.Errorf("particle %d velocity touched by ZeroForces", i)
		}
	}
}

func TestBuffer_KineticEnergy(t *testing.T) {
	b := NewBuffer(2)
	b.Set(0, Mass, 2)
	b.Set(0, VelX, 3)
	b.Set(0, VelY, 4)
	b.Set(1, Mass, 1)
	b.Set(1, VelZ, 2)

	// 0.5*2*25 + 0.5*1*4 = 27
	if ke := b.KineticEnergy(); math.Abs(ke-27) > 1e-12 {
		t.Errorf("KineticEnergy() = %v, want 27", ke)
	}
}

func TestBuffer_AppendFloat32(t *testing.T) {
	b := NewBuffer(1)
	b.Set(0, PosZ, 1.5)
	out := b.AppendFloat32(nil)
	if len(out) != RecordSize {
		t.Fatalf("frame length = %d, want %d", len(out), RecordSize)
	}
	if out[PosZ] != 1.5 {
		t.Errorf("frame[PosZ] = %v, want 1.5", out[PosZ])
	}
}
