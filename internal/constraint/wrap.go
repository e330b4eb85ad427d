package constraint

import (
	"math"

	"github.com/kobrakid/partsim/internal/psys"
)

// Wrap folds positions back into an axis-aligned box: a particle exiting
// one face re-enters at the opposite face with velocity and every other
// axis untouched.
type Wrap struct {
	min, max [3]float64
	targets  []int
}

func NewWrap(min, max [3]float64, targets []int) (*Wrap, error) {
	if err := checkBounds(min, max); err != nil {
		return nil, err
	}
	return &Wrap{min: min, max: max, targets: targets}, nil
}

func (c *Wrap) Bounds() (min, max [3]float64) {
	return c.min, c.max
}

func (c *Wrap) SetBounds(min, max [3]float64) error {
	if err := checkBounds(min, max); err != nil {
		return err
	}
	c.min, c.max = min, max
	return nil
}

func (c *Wrap) Constrain(prev, curr psys.Buffer, tun psys.Tuning) {
	each(c.targets, curr.Count(), func(i int) {
		base := i * psys.RecordSize
		for k := 0; k < 3; k++ {
			size := c.max[k] - c.min[k]
			if size < psys.Eps {
				continue
			}
			p := curr[base+psys.PosX+k]
			if p < c.min[k] || p > c.max[k] {
				w := math.Mod(p-c.min[k], size)
				if w < 0 {
					w += size
				}
				curr[base+psys.PosX+k] = c.min[k] + w
			}
		}
	})
}
