package constraint

import (
	"fmt"
	"math"

	"github.com/kobrakid/partsim/internal/psys"
)

// Sphere keeps its targets outside (or on) a sphere. A particle strictly
// inside is projected radially onto the surface and its velocity replaced
// by a purely outward radial one of the same speed, scaled by restitution.
type Sphere struct {
	center      [3]float64
	radius      float64
	Restitution float64
	targets     []int
}

func NewSphere(center [3]float64, radius, restitution float64, targets []int) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: sphere radius %v must be positive", psys.ErrBadParam, radius)
	}
	return &Sphere{center: center, radius: radius, Restitution: restitution, targets: targets}, nil
}

func (c *Sphere) Geometry() (center [3]float64, radius float64) {
	return c.center, c.radius
}

func (c *Sphere) SetGeometry(center [3]float64, radius float64) error {
	if radius <= 0 {
		return fmt.Errorf("%w: sphere radius %v must be positive", psys.ErrBadParam, radius)
	}
	c.center, c.radius = center, radius
	return nil
}

func (c *Sphere) Constrain(prev, curr psys.Buffer, tun psys.Tuning) {
	each(c.targets, curr.Count(), func(i int) {
		base := i * psys.RecordSize
		ox := curr[base+psys.PosX] - c.center[0]
		oy := curr[base+psys.PosY] - c.center[1]
		oz := curr[base+psys.PosZ] - c.center[2]
		d := math.Sqrt(ox*ox + oy*oy + oz*oz)
		if d >= c.radius {
			return
		}

		var nx, ny, nz float64
		if d < psys.Eps {
			// dead center, eject straight up
			nx, ny, nz = 0, 0, 1
		} else {
			nx, ny, nz = ox/d, oy/d, oz/d
		}

		curr[base+psys.PosX] = c.center[0] + c.radius*nx
		curr[base+psys.PosY] = c.center[1] + c.radius*ny
		curr[base+psys.PosZ] = c.center[2] + c.radius*nz

		speed := curr.Speed(i) * c.Restitution
		curr[base+psys.VelX] = nx * speed
		curr[base+psys.VelY] = ny * speed
		curr[base+psys.VelZ] = nz * speed
	})
}
