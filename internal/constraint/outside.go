package constraint

import (
	"github.com/kobrakid/partsim/internal/psys"
)

// Outside treats an axis-aligned box as a solid obstacle the targets must
// stay out of. The face crossed this step is the one axis whose range did
// not contain the previous position while the other two did; that axis is
// clamped to the face and its velocity reflected.
type Outside struct {
	min, max    [3]float64
	Restitution float64
	targets     []int
}

func NewOutside(min, max [3]float64, restitution float64, targets []int) (*Outside, error) {
	if err := checkBounds(min, max); err != nil {
		return nil, err
	}
	return &Outside{min: min, max: max, Restitution: restitution, targets: targets}, nil
}

func (c *Outside) Bounds() (min, max [3]float64) {
	return c.min, c.max
}

func (c *Outside) SetBounds(min, max [3]float64) error {
	if err := checkBounds(min, max); err != nil {
		return err
	}
	c.min, c.max = min, max
	return nil
}

func (c *Outside) inside(s psys.Buffer, base, k int) bool {
	p := s[base+psys.PosX+k]
	return p > c.min[k] && p < c.max[k]
}

func (c *Outside) Constrain(prev, curr psys.Buffer, tun psys.Tuning) {
	each(c.targets, curr.Count(), func(i int) {
		base := i * psys.RecordSize
		if !c.inside(curr, base, 0) || !c.inside(curr, base, 1) || !c.inside(curr, base, 2) {
			return
		}
		for k := 0; k < 3; k++ {
			if c.inside(prev, base, k) {
				continue
			}
			if !c.inside(prev, base, (k+1)%3) || !c.inside(prev, base, (k+2)%3) {
				continue
			}
			if prev[base+psys.PosX+k] <= c.min[k] {
				curr[base+psys.PosX+k] = c.min[k]
			} else {
				curr[base+psys.PosX+k] = c.max[k]
			}
			curr[base+psys.VelX+k] = -c.Restitution * curr[base+psys.VelX+k]
			return
		}
	})
}
