package psys

// Field offsets within one particle record. RecordSize falls out of the
// iota block; adding a field before it keeps every consumer consistent.
const (
	PosX = iota
	PosY
	PosZ
	VelX
	VelY
	VelZ
	ForX
	ForY
	ForZ
	ColR
	ColG
	ColB
	ColA
	Mass
	Radius
	Age

	RecordSize
)

// Eps is the shared degeneracy guard. Separations, radii and masses below
// Eps are treated as degenerate and the contribution is skipped rather than
// letting a division blow up into NaN.
const Eps = 1e-9

// Offset returns the flat index of field f of particle i.
func Offset(i, f int) int {
	return i*RecordSize + f
}

// FieldName returns a short label for a field offset, used by diagnostics
// and csv headers.
func FieldName(f int) string {
	if f >= 0 && f < RecordSize {
		return fieldNames[f]
	}
	return "?"
}

var fieldNames = [RecordSize]string{
	"px", "py", "pz",
	"vx", "vy", "vz",
	"fx", "fy", "fz",
	"r", "g", "b", "a",
	"mass", "radius", "age",
}
