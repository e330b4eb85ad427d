package force

import (
	"fmt"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// Wind adds a stochastic impulse along a direction, independently resampled
// per axis on every application.
type Wind struct {
	Dir     [3]float64
	Mag     float64
	targets []int
}

func NewWind(dir [3]float64, mag float64, targets []int) (*Wind, error) {
	if mag < 0 {
		return nil, fmt.Errorf("%w: wind magnitude %v is negative", psys.ErrBadParam, mag)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: wind needs at least one target", psys.ErrBadTargets)
	}
	return &Wind{Dir: dir, Mag: mag, targets: targets}, nil
}

func (w *Wind) Targets() []int { return w.targets }

func (w *Wind) Apply(s psys.Buffer, rng *rand.Rand) {
	for _, i := range w.targets {
		base := i * psys.RecordSize
		s[base+psys.ForX] += w.Dir[0] * w.Mag * rng.Float64()
		s[base+psys.ForY] += w.Dir[1] * w.Mag * rng.Float64()
		s[base+psys.ForZ] += w.Dir[2] * w.Mag * rng.Float64()
	}
}
