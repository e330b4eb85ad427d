package constraint

import (
	"math"

	"github.com/kobrakid/partsim/internal/psys"
)

// Box keeps its targets inside an axis-aligned volume. A particle that has
// crossed an enabled wall with its velocity still carrying it further out
// is clamped back to the wall plane with its velocity on that axis set to
// the pre-step speed scaled by drag and restitution, flipped inward.
//
// Walls are checked independently in the order left, right, front, back,
// bottom, top, so a corner hit repairs two or three axes in one call.
type Box struct {
	min, max    [3]float64
	Walls       WallMask
	Restitution float64
	targets     []int
}

func NewBox(min, max [3]float64, walls WallMask, restitution float64, targets []int) (*Box, error) {
	if err := checkBounds(min, max); err != nil {
		return nil, err
	}
	return &Box{min: min, max: max, Walls: walls, Restitution: restitution, targets: targets}, nil
}

// Bounds reports the current geometry for live inspection.
func (c *Box) Bounds() (min, max [3]float64) {
	return c.min, c.max
}

// SetBounds replaces the geometry, taking effect on the next step.
func (c *Box) SetBounds(min, max [3]float64) error {
	if err := checkBounds(min, max); err != nil {
		return err
	}
	c.min, c.max = min, max
	return nil
}

func (c *Box) Constrain(prev, curr psys.Buffer, tun psys.Tuning) {
	bounce := tun.Drag * c.Restitution
	each(c.targets, curr.Count(), func(i int) {
		base := i * psys.RecordSize

		if c.Walls.Has(WallLeft) && curr[base+psys.PosX] < c.min[0] && curr[base+psys.VelX] < 0 {
			curr[base+psys.PosX] = c.min[0]
			curr[base+psys.VelX] = bounce * math.Abs(prev[base+psys.VelX])
		}
		if c.Walls.Has(WallRight) && curr[base+psys.PosX] > c.max[0] && curr[base+psys.VelX] > 0 {
			curr[base+psys.PosX] = c.max[0]
			curr[base+psys.VelX] = -bounce * math.Abs(prev[base+psys.VelX])
		}
		if c.Walls.Has(WallFront) && curr[base+psys.PosY] < c.min[1] && curr[base+psys.VelY] < 0 {
			curr[base+psys.PosY] = c.min[1]
			curr[base+psys.VelY] = bounce * math.Abs(prev[base+psys.VelY])
		}
		if c.Walls.Has(WallBack) && curr[base+psys.PosY] > c.max[1] && curr[base+psys.VelY] > 0 {
			curr[base+psys.PosY] = c.max[1]
			curr[base+psys.VelY] = -bounce * math.Abs(prev[base+psys.VelY])
		}
		if c.Walls.Has(WallBottom) && curr[base+psys.PosZ] < c.min[2] && curr[base+psys.VelZ] < 0 {
			curr[base+psys.PosZ] = c.min[2]
			curr[base+psys.VelZ] = bounce * math.Abs(prev[base+psys.VelZ])
		}
		if c.Walls.Has(WallTop) && curr[base+psys.PosZ] > c.max[2] && curr[base+psys.VelZ] > 0 {
			curr[base+psys.PosZ] = c.max[2]
			curr[base+psys.VelZ] = -bounce * math.Abs(prev[base+psys.VelZ])
		}
	})
}

// ReversalBox only negates and scales the offending velocity component on a
// wall crossing, without clamping position, except for an unconditional
// hard clamp at the lower z bound so nothing sinks through the floor.
type ReversalBox struct {
	min, max    [3]float64
	Restitution float64
	targets     []int
}

func NewReversalBox(min, max [3]float64, restitution float64, targets []int) (*ReversalBox, error) {
	if err := checkBounds(min, max); err != nil {
		return nil, err
	}
	return &ReversalBox{min: min, max: max, Restitution: restitution, targets: targets}, nil
}

func (c *ReversalBox) Bounds() (min, max [3]float64) {
	return c.min, c.max
}

func (c *ReversalBox) SetBounds(min, max [3]float64) error {
	if err := checkBounds(min, max); err != nil {
		return err
	}
	c.min, c.max = min, max
	return nil
}

func (c *ReversalBox) Constrain(prev, curr psys.Buffer, tun psys.Tuning) {
	each(c.targets, curr.Count(), func(i int) {
		base := i * psys.RecordSize
		for k := 0; k < 3; k++ {
			p := curr[base+psys.PosX+k]
			v := curr[base+psys.VelX+k]
			if (p < c.min[k] && v < 0) || (p > c.max[k] && v > 0) {
				curr[base+psys.VelX+k] = -c.Restitution * v
			}
		}
		if curr[base+psys.PosZ] < c.min[2] {
			curr[base+psys.PosZ] = c.min[2]
		}
	})
}
