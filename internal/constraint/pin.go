package constraint

import (
	"github.com/kobrakid/partsim/internal/psys"
)

// Pin nails its targets to a fixed point with zero velocity every step.
// Cloth corners are pinned and released by toggling the constraint slot.
type Pin struct {
	Point   [3]float64
	targets []int
}

func NewPin(point [3]float64, targets []int) (*Pin, error) {
	if err := psys.CheckTargets(targets, 1<<31); err != nil {
		return nil, err
	}
	return &Pin{Point: point, targets: targets}, nil
}

func (c *Pin) Constrain(prev, curr psys.Buffer, tun psys.Tuning) {
	each(c.targets, curr.Count(), func(i int) {
		base := i * psys.RecordSize
		curr[base+psys.PosX] = c.Point[0]
		curr[base+psys.PosY] = c.Point[1]
		curr[base+psys.PosZ] = c.Point[2]
		curr[base+psys.VelX] = 0
		curr[base+psys.VelY] = 0
		curr[base+psys.VelZ] = 0
	})
}
