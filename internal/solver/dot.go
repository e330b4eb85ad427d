// Package solver implements the numerical schemes advancing a particle
// buffer by one timestep, and the derivative pass they consume.
package solver

import (
	"github.com/kobrakid/partsim/internal/psys"
)

// Dot writes the state derivative of s into dst (reallocating when the
// size does not match) and returns it: position-dot is velocity,
// velocity-dot is the force accumulator over mass. Color, mass, radius,
// age and the accumulator itself never advance through integration; their
// derivative is zero.
func Dot(s, dst psys.Buffer) psys.Buffer {
	if len(dst) != len(s) {
		dst = make(psys.Buffer, len(s))
	}
	for i := range dst {
		dst[i] = 0
	}
	for base := 0; base < len(s); base += psys.RecordSize {
		m := s[base+psys.Mass]
		if m < psys.Eps {
			m = psys.Eps
		}
		inv := 1.0 / m
		dst[base+psys.PosX] = s[base+psys.VelX]
		dst[base+psys.PosY] = s[base+psys.VelY]
		dst[base+psys.PosZ] = s[base+psys.VelZ]
		dst[base+psys.VelX] = s[base+psys.ForX] * inv
		dst[base+psys.VelY] = s[base+psys.ForY] * inv
		dst[base+psys.VelZ] = s[base+psys.ForZ] * inv
	}
	return dst
}
