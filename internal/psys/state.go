package psys

import "math"

// Buffer is a flat particle state buffer: Count() records of RecordSize
// floats each, addressed through Offset.
type Buffer []float64

// NewBuffer returns a zeroed buffer for n particles.
func NewBuffer(n int) Buffer {
	return make(Buffer, n*RecordSize)
}

// Count returns the number of particle records in the buffer.
func (b Buffer) Count() int {
	return len(b) / RecordSize
}

func (b Buffer) Clone() Buffer {
	c := make(Buffer, len(b))
	copy(c, b)
	return c
}

// At returns field f of particle i.
func (b Buffer) At(i, f int) float64 {
	return b[i*RecordSize+f]
}

// Set overwrites field f of particle i.
func (b Buffer) Set(i, f int, v float64) {
	b[i*RecordSize+f] = v
}

// Add accumulates into field f of particle i.
func (b Buffer) Add(i, f int, v float64) {
	b[i*RecordSize+f] += v
}

// ZeroForces clears every particle's force accumulator. Called once per
// step before the force pass so that forces compose by superposition.
func (b Buffer) ZeroForces() {
	for base := 0; base < len(b); base += RecordSize {
		b[base+ForX] = 0
		b[base+ForY] = 0
		b[base+ForZ] = 0
	}
}

// IsValid reports whether the buffer is free of NaN and Inf values.
func (b Buffer) IsValid() bool {
	for _, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// KineticEnergy sums 1/2 m v^2 over all particles.
func (b Buffer) KineticEnergy() float64 {
	ke := 0.0
	for base := 0; base < len(b); base += RecordSize {
		vx, vy, vz := b[base+VelX], b[base+VelY], b[base+VelZ]
		ke += 0.5 * b[base+Mass] * (vx*vx + vy*vy + vz*vz)
	}
	return ke
}

// Speed returns the velocity magnitude of particle i.
func (b Buffer) Speed(i int) float64 {
	base := i * RecordSize
	vx, vy, vz := b[base+VelX], b[base+VelY], b[base+VelZ]
	return math.Sqrt(vx*vx + vy*vy + vz*vz)
}

// AppendFloat32 appends the whole buffer to dst as float32s, the format the
// presentation boundary consumes. Multiple systems append into one shared
// frame in step order.
func (b Buffer) AppendFloat32(dst []float32) []float32 {
	for _, v := range b {
		dst = append(dst, float32(v))
	}
	return dst
}
