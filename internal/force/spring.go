package force

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// ForceClamp bounds the per-axis magnitude of a spring force. Stiff springs
// at small separations otherwise explode the integration.
const ForceClamp = 12.0

// Spring is a pairwise Hooke spring between exactly two particles. The
// force is equal and opposite on both endpoints. Damping is off unless set:
// when positive it damps the relative velocity along the spring axis.
type Spring struct {
	P0, P1  int
	K       float64
	Rest    float64
	Damping float64
}

func NewSpring(p0, p1 int, k, rest float64) (*Spring, error) {
	if p0 == p1 {
		return nil, fmt.Errorf("%w: spring endpoints must be distinct, got %d twice", psys.ErrBadTargets, p0)
	}
	if p0 < 0 || p1 < 0 {
		return nil, fmt.Errorf("%w: spring endpoints %d,%d", psys.ErrBadTargets, p0, p1)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: spring stiffness %v must be positive", psys.ErrBadParam, k)
	}
	if rest < 0 {
		return nil, fmt.Errorf("%w: spring rest length %v is negative", psys.ErrBadParam, rest)
	}
	return &Spring{P0: p0, P1: p1, K: k, Rest: rest}, nil
}

func (f *Spring) Targets() []int { return []int{f.P0, f.P1} }

func (f *Spring) Apply(s psys.Buffer, _ *rand.Rand) {
	b0 := f.P0 * psys.RecordSize
	b1 := f.P1 * psys.RecordSize

	dx := s[b1+psys.PosX] - s[b0+psys.PosX]
	dy := s[b1+psys.PosY] - s[b0+psys.PosY]
	dz := s[b1+psys.PosZ] - s[b0+psys.PosZ]
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if d < psys.Eps {
		return
	}
	ux, uy, uz := dx/d, dy/d, dz/d

	mag := f.K * (d - f.Rest)
	if f.Damping > 0 {
		rvx := s[b1+psys.VelX] - s[b0+psys.VelX]
		rvy := s[b1+psys.VelY] - s[b0+psys.VelY]
		rvz := s[b1+psys.VelZ] - s[b0+psys.VelZ]
		mag += f.Damping * (rvx*ux + rvy*uy + rvz*uz)
	}

	fx := clamp(mag*ux, ForceClamp)
	fy := clamp(mag*uy, ForceClamp)
	fz := clamp(mag*uz, ForceClamp)

	s[b0+psys.ForX] += fx
	s[b0+psys.ForY] += fy
	s[b0+psys.ForZ] += fz
	s[b1+psys.ForX] -= fx
	s[b1+psys.ForY] -= fy
	s[b1+psys.ForZ] -= fz
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
