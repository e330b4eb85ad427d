package sim

import (
	"math"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
)

// SnowKeeper ages particles down each step and respawns expired ones
// uniformly inside a source box with a fresh downward velocity and a
// randomized lifetime.
type SnowKeeper struct {
	SourceMin [3]float64
	SourceMax [3]float64
	MaxAge    float64
	FallSpeed float64
	Jitter    float64
}

func (k *SnowKeeper) Tick(prev, next psys.Buffer, rng *rand.Rand) {
	for base := 0; base < len(next); base += psys.RecordSize {
		age := next[base+psys.Age] - 1
		if age > 0 {
			next[base+psys.Age] = age
			continue
		}

		for ax := 0; ax < 3; ax++ {
			span := k.SourceMax[ax] - k.SourceMin[ax]
			next[base+psys.PosX+ax] = k.SourceMin[ax] + rng.Float64()*span
		}
		next[base+psys.VelX] = (rng.Float64() - 0.5) * k.Jitter
		next[base+psys.VelY] = (rng.Float64() - 0.5) * k.Jitter
		next[base+psys.VelZ] = -k.FallSpeed * (0.5 + rng.Float64()*0.5)
		next[base+psys.Age] = k.MaxAge * (0.5 + rng.Float64()*0.5)
	}
}

// FireKeeper evolves a fountain of embers: colors cool geometrically each
// step, alpha fades with distance from the source sphere's surface, and
// expired particles respawn on the surface moving outward with an upward
// bias.
type FireKeeper struct {
	Center     [3]float64
	Radius     float64
	Cool       float64 // per-step color multiplier, just under 1
	BurstSpeed float64
	UpwardBias float64
	MaxAge     float64
}

const (
	fireAlphaMin = 0.1
	fireAlphaMax = 1.0
)

func (k *FireKeeper) Tick(prev, next psys.Buffer, rng *rand.Rand) {
	for base := 0; base < len(next); base += psys.RecordSize {
		age := next[base+psys.Age] - 1
		if age <= 0 {
			k.respawn(next, base, rng)
			continue
		}
		next[base+psys.Age] = age

		next[base+psys.ColR] *= k.Cool
		next[base+psys.ColG] *= k.Cool
		next[base+psys.ColB] *= k.Cool

		ox := next[base+psys.PosX] - k.Center[0]
		oy := next[base+psys.PosY] - k.Center[1]
		oz := next[base+psys.PosZ] - k.Center[2]
		d := math.Sqrt(ox*ox+oy*oy+oz*oz) - k.Radius
		if d < 0 {
			d = 0
		}
		alpha := fireAlphaMax - d/(2*k.Radius)
		if alpha < fireAlphaMin {
			alpha = fireAlphaMin
		}
		next[base+psys.ColA] = alpha
	}
}

func (k *FireKeeper) respawn(next psys.Buffer, base int, rng *rand.Rand) {
	// uniform direction on the sphere
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	dx, dy, dz := r*math.Cos(phi), r*math.Sin(phi), z

	next[base+psys.PosX] = k.Center[0] + k.Radius*dx
	next[base+psys.PosY] = k.Center[1] + k.Radius*dy
	next[base+psys.PosZ] = k.Center[2] + k.Radius*dz

	next[base+psys.VelX] = dx * k.BurstSpeed
	next[base+psys.VelY] = dy * k.BurstSpeed
	next[base+psys.VelZ] = dz*k.BurstSpeed + k.UpwardBias

	next[base+psys.ColR] = 1.0
	next[base+psys.ColG] = 0.45 + 0.3*rng.Float64()
	next[base+psys.ColB] = 0.05
	next[base+psys.ColA] = fireAlphaMax
	next[base+psys.Age] = k.MaxAge * (0.5 + rng.Float64()*0.5)
}
