package psys

import "testing"

func TestRecordSize(t *testing.T) {
	if RecordSize != 16 {
		t.Fatalf("RecordSize = %d, want 16", RecordSize)
	}
}

func TestOffset(t *testing.T) {
	for i := 0; i < 8; i++ {
		for f := 0; f < RecordSize; f++ {
			want := i*RecordSize + f
			if got := Offset(i, f); got != want {
				t.Errorf("Offset(%d,%d) = %d, want %d", i, f, got, want)
			}
		}
	}
}

func TestOffset_NoAliasing(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		for f := 0; f < RecordSize; f++ {
			off := Offset(i, f)
			if seen[off] {
				t.Fatalf("offset %d produced twice", off)
			}
			seen[off] = true
		}
	}
	if len(seen) != 4*RecordSize {
		t.Errorf("expected %d distinct offsets, got %d", 4*RecordSize, len(seen))
	}
}

func TestFieldName(t *testing.T) {
	if FieldName(PosX) != "px" || FieldName(Age) != "age" {
		t.Error("field names out of sync with layout")
	}
	if FieldName(RecordSize) != "?" || FieldName(-1) != "?" {
		t.Error("out-of-range field should map to ?")
	}
}
