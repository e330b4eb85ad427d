package force

import (
	"fmt"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// Indices returns the target set [0, n) — the whole system.
func Indices(n int) []int {
	t := make([]int, n)
	for i := range t {
		t[i] = i
	}
	return t
}

// Gravity pulls its targets down along z with a mass-scaled force, so the
// integrator's mass normalization cancels it back to a constant
// acceleration.
type Gravity struct {
	Mag     float64
	targets []int
}

func NewGravity(mag float64, targets []int) (*Gravity, error) {
	if mag < 0 {
		return nil, fmt.Errorf("%w: gravity magnitude %v is negative", psys.ErrBadParam, mag)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: gravity needs at least one target", psys.ErrBadTargets)
	}
	return &Gravity{Mag: mag, targets: targets}, nil
}

func (g *Gravity) Targets() []int { return g.targets }

func (g *Gravity) Apply(s psys.Buffer, _ *rand.Rand) {
	for _, i := range g.targets {
		base := i * psys.RecordSize
		s[base+psys.ForZ] -= s[base+psys.Mass] * g.Mag
	}
}
