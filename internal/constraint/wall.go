package constraint

import (
	"fmt"

	"github.com/kobrakid/partsim/internal/psys"
)

// WallMask selects which walls of an axis-aligned box participate in a
// constraint. Left/Right bound x, Front/Back bound y, Bottom/Top bound z.
type WallMask uint8

const (
	WallLeft WallMask = 1 << iota
	WallRight
	WallFront
	WallBack
	WallBottom
	WallTop
)

const WallAll = WallLeft | WallRight | WallFront | WallBack | WallBottom | WallTop

func (m WallMask) Has(w WallMask) bool {
	return m&w != 0
}

func checkBounds(min, max [3]float64) error {
	for k := 0; k < 3; k++ {
		if min[k] > max[k] {
			return fmt.Errorf("%w: axis %d min %v > max %v", psys.ErrBadParam, k, min[k], max[k])
		}
	}
	return nil
}

// each invokes fn for every targeted particle, or every particle in a
// buffer of n records when the target set is empty.
func each(targets []int, n int, fn func(i int)) {
	if len(targets) == 0 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	for _, i := range targets {
		if i >= 0 && i < n {
			fn(i)
		}
	}
}
