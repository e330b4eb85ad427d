// Package sim drives particle systems through their per-frame step:
// zero accumulators, apply forces, derive, integrate, bookkeep, constrain,
// publish, swap.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/kobrakid/partsim/internal/psys"
	"github.com/kobrakid/partsim/internal/solver"
)

// ForceSlot is a registered force with its runtime toggles. TTL counts
// remaining applications; negative means unlimited. Expired slots are
// pruned by the driver after the apply pass.
type ForceSlot struct {
	Force   psys.Force
	Enabled bool
	TTL     int
}

// ConstraintSlot is a registered constraint with its enable toggle.
type ConstraintSlot struct {
	Constraint psys.Constraint
	Enabled    bool
}

// Bookkeeper runs domain-specific per-particle upkeep between integration
// and constraint application (age countdowns, respawns, color evolution).
type Bookkeeper interface {
	Tick(prev, next psys.Buffer, rng *rand.Rand)
}

// System owns the state buffers of one simulated effect and is the only
// mutator of them. Not safe for concurrent use.
type System struct {
	name string

	s1  psys.Buffer // current, published
	dot psys.Buffer // derivative scratch

	forces      []*ForceSlot
	constraints []*ConstraintSlot
	integ       psys.Integrator
	keeper      Bookkeeper

	rng   *rand.Rand
	steps int
}

// NewSystem creates a system of n zeroed particles advanced by integ. The
// seed feeds the system's private rng used by stochastic forces and
// respawn bookkeeping.
func NewSystem(name string, n int, integ psys.Integrator, seed int64) (*System, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: particle count %d", psys.ErrBadParam, n)
	}
	if integ == nil {
		return nil, fmt.Errorf("%w: nil integrator", psys.ErrBadParam)
	}
	return &System{
		name: name,
		s1:   psys.NewBuffer(n),
		integ: integ,
		rng:  rand.New(rand.NewSource(seed)),
	}, nil
}

func (sys *System) Name() string { return sys.name }

// Count returns the number of particles.
func (sys *System) Count() int { return sys.s1.Count() }

// Steps returns how many steps the system has taken.
func (sys *System) Steps() int { return sys.steps }

// Rand exposes the system rng to scene factories seeding initial state.
func (sys *System) Rand() *rand.Rand { return sys.rng }

// Current returns the published buffer. Callers must treat it as
// read-only and must not retain it across a Step.
func (sys *System) Current() psys.Buffer { return sys.s1 }

// SetState replaces the current buffer with an initial snapshot.
func (sys *System) SetState(s psys.Buffer) error {
	if len(s) != len(sys.s1) {
		return fmt.Errorf("%w: snapshot has %d slots, system wants %d",
			psys.ErrBadParam, len(s), len(sys.s1))
	}
	copy(sys.s1, s)
	return nil
}

// ForEach hands out each particle record for in-place initialization.
func (sys *System) ForEach(fn func(i int, rec []float64)) {
	for i := 0; i < sys.Count(); i++ {
		base := i * psys.RecordSize
		fn(i, sys.s1[base:base+psys.RecordSize])
	}
}

// SetIntegrator swaps the scheme between steps.
func (sys *System) SetIntegrator(integ psys.Integrator) {
	if integ != nil {
		sys.integ = integ
	}
}

// SetBookkeeper installs the domain upkeep pass.
func (sys *System) SetBookkeeper(k Bookkeeper) { sys.keeper = k }

// AddForce registers a force and returns its slot index. ttl is the number
// of steps it stays active; negative means unlimited.
func (sys *System) AddForce(f psys.Force, ttl int) (int, error) {
	if f == nil {
		return 0, fmt.Errorf("%w: nil force", psys.ErrBadParam)
	}
	if err := psys.CheckTargets(f.Targets(), sys.Count()); err != nil {
		return 0, err
	}
	sys.forces = append(sys.forces, &ForceSlot{Force: f, Enabled: true, TTL: ttl})
	return len(sys.forces) - 1, nil
}

// EnableForce toggles a force slot without removing it.
func (sys *System) EnableForce(i int, enabled bool) error {
	if i < 0 || i >= len(sys.forces) {
		return fmt.Errorf("%w: force slot %d", psys.ErrBadTargets, i)
	}
	sys.forces[i].Enabled = enabled
	return nil
}

// RemoveForce drops a force slot; later slots shift down.
func (sys *System) RemoveForce(i int) error {
	if i < 0 || i >= len(sys.forces) {
		return fmt.Errorf("%w: force slot %d", psys.ErrBadTargets, i)
	}
	sys.forces = append(sys.forces[:i], sys.forces[i+1:]...)
	return nil
}

// Forces exposes the registered slots for inspection.
func (sys *System) Forces() []*ForceSlot { return sys.forces }

// AddConstraint registers a constraint and returns its slot index.
// Constraints run in registration order.
func (sys *System) AddConstraint(c psys.Constraint) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("%w: nil constraint", psys.ErrBadParam)
	}
	sys.constraints = append(sys.constraints, &ConstraintSlot{Constraint: c, Enabled: true})
	return len(sys.constraints) - 1, nil
}

// EnableConstraint toggles a constraint slot (pin/release for cloth).
func (sys *System) EnableConstraint(i int, enabled bool) error {
	if i < 0 || i >= len(sys.constraints) {
		return fmt.Errorf("%w: constraint slot %d", psys.ErrBadTargets, i)
	}
	sys.constraints[i].Enabled = enabled
	return nil
}

// RemoveConstraint drops a constraint slot; later slots shift down.
func (sys *System) RemoveConstraint(i int) error {
	if i < 0 || i >= len(sys.constraints) {
		return fmt.Errorf("%w: constraint slot %d", psys.ErrBadTargets, i)
	}
	sys.constraints = append(sys.constraints[:i], sys.constraints[i+1:]...)
	return nil
}

// Constraints exposes the registered slots so bounds can be inspected and
// edited live.
func (sys *System) Constraints() []*ConstraintSlot { return sys.constraints }

// Derive implements psys.Deriver: zero the force accumulators of s, run
// the enabled forces over it, and return its derivative. The returned
// buffer is scratch owned by the system, valid until the next Derive call.
// Lifetimes are not ticked here; a multi-stage integrator re-deriving at
// intermediate samples counts as one application per step.
func (sys *System) Derive(s psys.Buffer) psys.Buffer {
	s.ZeroForces()
	for _, slot := range sys.forces {
		if slot.Enabled && slot.TTL != 0 {
			slot.Force.Apply(s, sys.rng)
		}
	}
	sys.dot = solver.Dot(s, sys.dot)
	return sys.dot
}

func (sys *System) tickLifetimes() {
	kept := sys.forces[:0]
	for _, slot := range sys.forces {
		if slot.Enabled && slot.TTL > 0 {
			slot.TTL--
		}
		if slot.TTL != 0 {
			kept = append(kept, slot)
		}
	}
	sys.forces = kept
}

// Step advances the system one timestep. The order is fixed: force pass
// and derivative on the working buffer, prune expired forces, integrate,
// domain bookkeeping, constraints in registration order against the
// (previous, next) pair, then the next buffer becomes current.
func (sys *System) Step(tun psys.Tuning) {
	sdot := sys.Derive(sys.s1)
	next := sys.integ.Step(sys, sys.s1, sdot, tun.Dt)
	sys.tickLifetimes()

	if sys.keeper != nil {
		sys.keeper.Tick(sys.s1, next, sys.rng)
	}

	for _, slot := range sys.constraints {
		if slot.Enabled {
			slot.Constraint.Constrain(sys.s1, next, tun)
		}
	}

	sys.s1 = next
	sys.steps++
}

// AppendFrame appends the published buffer to dst in the flat float32
// layout the presentation boundary consumes.
func (sys *System) AppendFrame(dst []float32) []float32 {
	return sys.s1.AppendFloat32(dst)
}
