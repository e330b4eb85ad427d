package force

import (
	"fmt"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// Drag applies a linear drag proportional to current velocity, with an
// independent coefficient per axis.
type Drag struct {
	Axis    [3]float64
	Mag     float64
	targets []int
}

func NewDrag(axis [3]float64, mag float64, targets []int) (*Drag, error) {
	if mag < 0 {
		return nil, fmt.Errorf("%w: drag magnitude %v is negative", psys.ErrBadParam, mag)
	}
	for k, c := range axis {
		if c < 0 {
			return nil, fmt.Errorf("%w: drag coefficient %v on axis %d is negative", psys.ErrBadParam, c, k)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: drag needs at least one target", psys.ErrBadTargets)
	}
	return &Drag{Axis: axis, Mag: mag, targets: targets}, nil
}

func (d *Drag) Targets() []int { return d.targets }

func (d *Drag) Apply(s psys.Buffer, _ *rand.Rand) {
	for _, i := range d.targets {
		base := i * psys.RecordSize
		s[base+psys.ForX] -= s[base+psys.VelX] * d.Axis[0] * d.Mag
		s[base+psys.ForY] -= s[base+psys.VelY] * d.Axis[1] * d.Mag
		s[base+psys.ForZ] -= s[base+psys.VelZ] * d.Axis[2] * d.Mag
	}
}
