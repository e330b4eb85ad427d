package force

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// falloff is the shared inverse power law: magnitude ∝ r^-(power+1).
func falloff(r, power, mag float64) float64 {
	return mag * math.Pow(r, -(power + 1))
}

// LineAttractor pulls particles radially toward a line segment through
// Anchor along the unit Axis. Particles beyond the longitudinal cutoff or
// closer than the epsilon guard are unaffected.
type LineAttractor struct {
	Anchor  [3]float64
	Axis    [3]float64
	Length  float64
	Power   float64
	Mag     float64
	targets []int
}

func NewLineAttractor(anchor, axis [3]float64, length, power, mag float64, targets []int) (*LineAttractor, error) {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n < psys.Eps {
		return nil, fmt.Errorf("%w: attractor axis has zero length", psys.ErrBadParam)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: attractor length %v must be positive", psys.ErrBadParam, length)
	}
	if mag < 0 {
		return nil, fmt.Errorf("%w: attractor magnitude %v is negative", psys.ErrBadParam, mag)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: attractor needs at least one target", psys.ErrBadTargets)
	}
	axis[0] /= n
	axis[1] /= n
	axis[2] /= n
	return &LineAttractor{Anchor: anchor, Axis: axis, Length: length, Power: power, Mag: mag, targets: targets}, nil
}

func (a *LineAttractor) Targets() []int { return a.targets }

func (a *LineAttractor) Apply(s psys.Buffer, _ *rand.Rand) {
	for _, i := range a.targets {
		base := i * psys.RecordSize
		ox := s[base+psys.PosX] - a.Anchor[0]
		oy := s[base+psys.PosY] - a.Anchor[1]
		oz := s[base+psys.PosZ] - a.Anchor[2]

		long := ox*a.Axis[0] + oy*a.Axis[1] + oz*a.Axis[2]
		if long < 0 || long > a.Length {
			continue
		}
		rx := ox - long*a.Axis[0]
		ry := oy - long*a.Axis[1]
		rz := oz - long*a.Axis[2]
		r := math.Sqrt(rx*rx + ry*ry + rz*rz)
		if r < psys.Eps {
			continue
		}
		scale := falloff(r, a.Power, a.Mag) / r
		s[base+psys.ForX] -= rx * scale
		s[base+psys.ForY] -= ry * scale
		s[base+psys.ForZ] -= rz * scale
	}
}

// Vortex is the tangential variant of LineAttractor: in-range particles are
// pushed along axis × radial, circulating around the line.
type Vortex struct {
	line *LineAttractor
}

func NewVortex(anchor, axis [3]float64, length, power, mag float64, targets []int) (*Vortex, error) {
	line, err := NewLineAttractor(anchor, axis, length, power, mag, targets)
	if err != nil {
		return nil, err
	}
	return &Vortex{line: line}, nil
}

func (v *Vortex) Targets() []int { return v.line.targets }

func (v *Vortex) Apply(s psys.Buffer, _ *rand.Rand) {
	a := v.line
	for _, i := range a.targets {
		base := i * psys.RecordSize
		ox := s[base+psys.PosX] - a.Anchor[0]
		oy := s[base+psys.PosY] - a.Anchor[1]
		oz := s[base+psys.PosZ] - a.Anchor[2]

		long := ox*a.Axis[0] + oy*a.Axis[1] + oz*a.Axis[2]
		if long < 0 || long > a.Length {
			continue
		}
		rx := ox - long*a.Axis[0]
		ry := oy - long*a.Axis[1]
		rz := oz - long*a.Axis[2]
		r := math.Sqrt(rx*rx + ry*ry + rz*rz)
		if r < psys.Eps {
			continue
		}
		// tangent = axis × radial, unit length since both factors are
		// orthogonal and radial is normalized below
		tx := (a.Axis[1]*rz - a.Axis[2]*ry) / r
		ty := (a.Axis[2]*rx - a.Axis[0]*rz) / r
		tz := (a.Axis[0]*ry - a.Axis[1]*rx) / r

		mag := falloff(r, a.Power, a.Mag)
		s[base+psys.ForX] += tx * mag
		s[base+psys.ForY] += ty * mag
		s[base+psys.ForZ] += tz * mag
	}
}

// PointAttractor pulls particles toward Anchor with an inverse power law.
// Cutoff > 0 limits the range; zero means unlimited.
type PointAttractor struct {
	Anchor  [3]float64
	Power   float64
	Mag     float64
	Cutoff  float64
	targets []int
}

func NewPointAttractor(anchor [3]float64, power, mag, cutoff float64, targets []int) (*PointAttractor, error) {
	if mag < 0 {
		return nil, fmt.Errorf("%w: attractor magnitude %v is negative", psys.ErrBadParam, mag)
	}
	if cutoff < 0 {
		return nil, fmt.Errorf("%w: attractor cutoff %v is negative", psys.ErrBadParam, cutoff)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: attractor needs at least one target", psys.ErrBadTargets)
	}
	return &PointAttractor{Anchor: anchor, Power: power, Mag: mag, Cutoff: cutoff, targets: targets}, nil
}

func (a *PointAttractor) Targets() []int { return a.targets }

func (a *PointAttractor) Apply(s psys.Buffer, _ *rand.Rand) {
	for _, i := range a.targets {
		base := i * psys.RecordSize
		ox := s[base+psys.PosX] - a.Anchor[0]
		oy := s[base+psys.PosY] - a.Anchor[1]
		oz := s[base+psys.PosZ] - a.Anchor[2]
		r := math.Sqrt(ox*ox + oy*oy + oz*oz)
		if r < psys.Eps || (a.Cutoff > 0 && r > a.Cutoff) {
			continue
		}
		scale := falloff(r, a.Power, a.Mag) / r
		s[base+psys.ForX] -= ox * scale
		s[base+psys.ForY] -= oy * scale
		s[base+psys.ForZ] -= oz * scale
	}
}

// UniformPoint pulls particles toward Anchor with a constant magnitude
// regardless of distance.
type UniformPoint struct {
	Anchor  [3]float64
	Mag     float64
	targets []int
}

func NewUniformPoint(anchor [3]float64, mag float64, targets []int) (*UniformPoint, error) {
	if mag < 0 {
		return nil, fmt.Errorf("%w: attractor magnitude %v is negative", psys.ErrBadParam, mag)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: attractor needs at least one target", psys.ErrBadTargets)
	}
	return &UniformPoint{Anchor: anchor, Mag: mag, targets: targets}, nil
}

func (a *UniformPoint) Targets() []int { return a.targets }

func (a *UniformPoint) Apply(s psys.Buffer, _ *rand.Rand) {
	for _, i := range a.targets {
		base := i * psys.RecordSize
		ox := s[base+psys.PosX] - a.Anchor[0]
		oy := s[base+psys.PosY] - a.Anchor[1]
		oz := s[base+psys.PosZ] - a.Anchor[2]
		r := math.Sqrt(ox*ox + oy*oy + oz*oz)
		if r < psys.Eps {
			continue
		}
		s[base+psys.ForX] -= ox / r * a.Mag
		s[base+psys.ForY] -= oy / r * a.Mag
		s[base+psys.ForZ] -= oz / r * a.Mag
	}
}
