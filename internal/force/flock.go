package force

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// Flock implements the boid rules over all ordered pairs of its target
// set. A neighbor j contributes to particle i only when it is within the
// outer visual radius and inside the monocular half-angle field of view,
// the angle measured between the separation vector and j's velocity.
//
// Distance weight kd is 1 inside InnerRadius and ramps linearly to 0 at
// OuterRadius; angular weight kt is 1 inside the binocular half-angle and
// ramps linearly to 0 at the monocular half-angle. Each of the three
// contributions (collision avoidance, velocity matching, centering) is
// scaled by kt*kd times its own weight.
type Flock struct {
	InnerRadius float64
	OuterRadius float64
	Binocular   float64 // half-angle, radians
	Monocular   float64 // half-angle, radians

	WeightAvoid  float64
	WeightMatch  float64
	WeightCenter float64

	targets []int
}

func NewFlock(inner, outer, binocular, monocular float64, targets []int) (*Flock, error) {
	if inner <= 0 || outer <= inner {
		return nil, fmt.Errorf("%w: flock radii inner=%v outer=%v", psys.ErrBadParam, inner, outer)
	}
	if binocular <= 0 || monocular <= binocular || monocular > math.Pi {
		return nil, fmt.Errorf("%w: flock half-angles binocular=%v monocular=%v", psys.ErrBadParam, binocular, monocular)
	}
	if len(targets) < 2 {
		return nil, fmt.Errorf("%w: flock needs at least 2 targets, got %d", psys.ErrBadTargets, len(targets))
	}
	return &Flock{
		InnerRadius:  inner,
		OuterRadius:  outer,
		Binocular:    binocular,
		Monocular:    monocular,
		WeightAvoid:  1.0,
		WeightMatch:  1.0,
		WeightCenter: 1.0,
		targets:      targets,
	}, nil
}

func (f *Flock) Targets() []int { return f.targets }

func (f *Flock) Apply(s psys.Buffer, _ *rand.Rand) {
	for _, i := range f.targets {
		bi := i * psys.RecordSize
		for _, j := range f.targets {
			if i == j {
				continue
			}
			bj := j * psys.RecordSize

			sx := s[bj+psys.PosX] - s[bi+psys.PosX]
			sy := s[bj+psys.PosY] - s[bi+psys.PosY]
			sz := s[bj+psys.PosZ] - s[bi+psys.PosZ]
			dist := math.Sqrt(sx*sx + sy*sy + sz*sz)
			if dist < psys.Eps || dist > f.OuterRadius {
				continue
			}

			vjx, vjy, vjz := s[bj+psys.VelX], s[bj+psys.VelY], s[bj+psys.VelZ]
			angle := 0.0
			if vmag := math.Sqrt(vjx*vjx + vjy*vjy + vjz*vjz); vmag > psys.Eps {
				cos := (sx*vjx + sy*vjy + sz*vjz) / (dist * vmag)
				angle = math.Acos(math.Max(-1, math.Min(1, cos)))
			}
			if angle > f.Monocular {
				continue
			}

			kd := 1.0
			if dist > f.InnerRadius {
				kd = (f.OuterRadius - dist) / (f.OuterRadius - f.InnerRadius)
			}
			kt := 1.0
			if angle > f.Binocular {
				kt = (f.Monocular - angle) / (f.Monocular - f.Binocular)
			}
			w := kt * kd

			avoid := w * f.WeightAvoid / (dist * dist)
			match := w * f.WeightMatch
			center := w * f.WeightCenter

			s[bi+psys.ForX] += -sx*avoid + match*(vjx-s[bi+psys.VelX]) + center*sx
			s[bi+psys.ForY] += -sy*avoid + match*(vjy-s[bi+psys.VelY]) + center*sy
			s[bi+psys.ForZ] += -sz*avoid + match*(vjz-s[bi+psys.VelZ]) + center*sz
		}
	}
}
