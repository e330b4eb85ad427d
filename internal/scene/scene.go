// Package scene assembles ready-to-run particle systems: forces,
// constraints, bookkeeping, and initial state for each named effect.
package scene

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/kobrakid/partsim/internal/config"
	"github.com/kobrakid/partsim/internal/constraint"
	"github.com/kobrakid/partsim/internal/force"
	"github.com/kobrakid/partsim/internal/psys"
	"github.com/kobrakid/partsim/internal/sim"
	"github.com/kobrakid/partsim/internal/solver"
)

type builder func(cfg *config.Config, seed int64) (*sim.System, error)

var scenes = map[string]builder{
	"snow":     buildSnow,
	"boids":    buildBoids,
	"fountain": buildFountain,
	"cloth":    buildCloth,
}

// Names returns the available scene names, sorted.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build assembles the named scene from cfg. The seed drives both initial
// placement and the system's runtime rng.
func Build(name string, cfg *config.Config, seed int64) (*sim.System, error) {
	build, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", psys.ErrUnknownScene, name)
	}
	return build(cfg, seed)
}

func newSystem(name string, n int, cfg *config.Config, seed int64) (*sim.System, error) {
	integ, err := solver.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.NewSystem(name, n, integ, seed)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func buildSnow(cfg *config.Config, seed int64) (*sim.System, error) {
	sys, err := newSystem("snow", cfg.Particles, cfg, seed)
	if err != nil {
		return nil, err
	}

	min := [3]float64{-5, -5, 0}
	max := [3]float64{5, 5, 10}

	rng := sys.Rand()
	sys.ForEach(func(i int, rec []float64) {
		rec[psys.PosX] = uniform(rng, min[0], max[0])
		rec[psys.PosY] = uniform(rng, min[1], max[1])
		rec[psys.PosZ] = uniform(rng, min[2], max[2])
		rec[psys.VelZ] = -uniform(rng, 0.2, 0.6)
		rec[psys.ColR], rec[psys.ColG], rec[psys.ColB], rec[psys.ColA] = 1, 1, 1, 1
		rec[psys.Mass] = 0.05
		rec[psys.Radius] = 0.02
		rec[psys.Age] = uniform(rng, 60, 600)
	})

	all := force.Indices(sys.Count())
	if err := addForces(sys,
		mustGravity(cfg.Gravity*0.25, all),
		mustWind([3]float64{1, 0.2, 0}, 0.02, all),
		mustDrag([3]float64{1, 1, 1}, 0.4, all),
	); err != nil {
		return nil, err
	}

	floor, err := constraint.NewReversalBox(min, max, cfg.Restitution, nil)
	if err != nil {
		return nil, err
	}
	if _, err := sys.AddConstraint(floor); err != nil {
		return nil, err
	}

	sys.SetBookkeeper(&sim.SnowKeeper{
		SourceMin: [3]float64{min[0], min[1], max[2] * 0.9},
		SourceMax: max,
		MaxAge:    600,
		FallSpeed: 0.5,
		Jitter:    0.3,
	})
	return sys, nil
}

func buildBoids(cfg *config.Config, seed int64) (*sim.System, error) {
	sys, err := newSystem("boids", cfg.Particles, cfg, seed)
	if err != nil {
		return nil, err
	}

	min := [3]float64{-8, -8, -8}
	max := [3]float64{8, 8, 8}

	rng := sys.Rand()
	sys.ForEach(func(i int, rec []float64) {
		for ax := 0; ax < 3; ax++ {
			rec[psys.PosX+ax] = uniform(rng, min[ax], max[ax])
			rec[psys.VelX+ax] = uniform(rng, -1, 1)
		}
		rec[psys.ColR] = 0.3
		rec[psys.ColG] = 0.6
		rec[psys.ColB] = 1.0
		rec[psys.ColA] = 1.0
		rec[psys.Mass] = 1.0
		rec[psys.Radius] = 0.05
		rec[psys.Age] = -1
	})

	all := force.Indices(sys.Count())
	fl := cfg.Flock
	flock, err := force.NewFlock(fl.InnerRadius, fl.OuterRadius, fl.Binocular, fl.Monocular, all)
	if err != nil {
		return nil, err
	}
	if err := addForces(sys, flock, mustDrag([3]float64{1, 1, 1}, 0.08, all)); err != nil {
		return nil, err
	}

	wrap, err := constraint.NewWrap(min, max, nil)
	if err != nil {
		return nil, err
	}
	if _, err := sys.AddConstraint(wrap); err != nil {
		return nil, err
	}
	return sys, nil
}

func buildFountain(cfg *config.Config, seed int64) (*sim.System, error) {
	sys, err := newSystem("fountain", cfg.Particles, cfg, seed)
	if err != nil {
		return nil, err
	}

	center := [3]float64{0, 0, 0.5}
	const radius = 0.5

	keeper := &sim.FireKeeper{
		Center:     center,
		Radius:     radius,
		Cool:       0.985,
		BurstSpeed: 1.2,
		UpwardBias: 2.0,
		MaxAge:     120,
	}
	sys.SetBookkeeper(keeper)

	sys.ForEach(func(i int, rec []float64) {
		rec[psys.Mass] = 0.1
		rec[psys.Radius] = 0.03
		// age 0 so the first bookkeeping pass births every ember on the
		// surface with a staggered lifetime
		rec[psys.Age] = 0
	})

	all := force.Indices(sys.Count())
	updraft, err := force.NewUniformPoint([3]float64{center[0], center[1], center[2] + 6}, 0.15, all)
	if err != nil {
		return nil, err
	}
	if err := addForces(sys,
		mustGravity(cfg.Gravity*0.35, all),
		updraft,
		mustDrag([3]float64{1, 1, 1}, 0.25, all),
	); err != nil {
		return nil, err
	}

	keepOut, err := constraint.NewSphere(center, radius*0.8, cfg.Restitution, nil)
	if err != nil {
		return nil, err
	}
	if _, err := sys.AddConstraint(keepOut); err != nil {
		return nil, err
	}
	return sys, nil
}

func buildCloth(cfg *config.Config, seed int64) (*sim.System, error) {
	rows, cols := cfg.Cloth.Rows, cfg.Cloth.Cols
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%w: cloth grid %dx%d", psys.ErrBadParam, rows, cols)
	}
	spacing := cfg.Cloth.Spacing
	k := cfg.Cloth.Stiffness

	sys, err := newSystem("cloth", rows*cols, cfg, seed)
	if err != nil {
		return nil, err
	}

	// grid hangs in the x/z plane, top row at z = rows*spacing
	top := float64(rows) * spacing
	sys.ForEach(func(i int, rec []float64) {
		r, c := i/cols, i%cols
		rec[psys.PosX] = float64(c) * spacing
		rec[psys.PosZ] = top - float64(r)*spacing
		rec[psys.ColR], rec[psys.ColG], rec[psys.ColB], rec[psys.ColA] = 0.9, 0.9, 0.95, 1
		rec[psys.Mass] = 0.02
		rec[psys.Radius] = 0.01
		rec[psys.Age] = -1
	})

	idx := func(r, c int) int { return r*cols + c }
	addSpring := func(p0, p1 int, rest float64) error {
		sp, err := force.NewSpring(p0, p1, k, rest)
		if err != nil {
			return err
		}
		sp.Damping = k * 0.05
		_, err = sys.AddForce(sp, -1)
		return err
	}
	diag := spacing * 1.4142135623730951
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				if err := addSpring(idx(r, c), idx(r, c+1), spacing); err != nil {
					return nil, err
				}
			}
			if r+1 < rows {
				if err := addSpring(idx(r, c), idx(r+1, c), spacing); err != nil {
					return nil, err
				}
			}
			if r+1 < rows && c+1 < cols {
				if err := addSpring(idx(r, c), idx(r+1, c+1), diag); err != nil {
					return nil, err
				}
				if err := addSpring(idx(r, c+1), idx(r+1, c), diag); err != nil {
					return nil, err
				}
			}
		}
	}

	all := force.Indices(sys.Count())
	if err := addForces(sys,
		mustGravity(cfg.Gravity, all),
		mustDrag([3]float64{1, 1, 1}, 0.1, all),
	); err != nil {
		return nil, err
	}

	// corner pins registered last so the view can release them by slot
	span := float64(cols-1) * spacing
	for _, corner := range []struct {
		at  [3]float64
		idx int
	}{
		{[3]float64{0, 0, top}, idx(0, 0)},
		{[3]float64{span, 0, top}, idx(0, cols-1)},
	} {
		pin, err := constraint.NewPin(corner.at, []int{corner.idx})
		if err != nil {
			return nil, err
		}
		if _, err := sys.AddConstraint(pin); err != nil {
			return nil, err
		}
	}

	lo := spacing * float64(rows+cols)
	box, err := constraint.NewBox(
		[3]float64{-lo, -lo, -lo}, [3]float64{lo + span, lo, lo + top},
		constraint.WallAll, cfg.Restitution, nil)
	if err != nil {
		return nil, err
	}
	if _, err := sys.AddConstraint(box); err != nil {
		return nil, err
	}
	return sys, nil
}

func addForces(sys *sim.System, forces ...psys.Force) error {
	for _, f := range forces {
		if _, err := sys.AddForce(f, -1); err != nil {
			return err
		}
	}
	return nil
}

func mustGravity(mag float64, targets []int) psys.Force {
	g, err := force.NewGravity(mag, targets)
	if err != nil {
		panic(err)
	}
	return g
}

func mustWind(dir [3]float64, mag float64, targets []int) psys.Force {
	w, err := force.NewWind(dir, mag, targets)
	if err != nil {
		panic(err)
	}
	return w
}

func mustDrag(axis [3]float64, mag float64, targets []int) psys.Force {
	d, err := force.NewDrag(axis, mag, targets)
	if err != nil {
		panic(err)
	}
	return d
}
