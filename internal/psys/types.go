package psys

import "math/rand"

// Force accumulates into the force fields of its target particles. Apply
// must only ever add into the ForX..ForZ slots so that registered forces
// compose by superposition; position and velocity belong to the integrator
// and the constraints.
type Force interface {
	Apply(s Buffer, rng *rand.Rand)
	Targets() []int
}

// Constraint repairs the post-integration buffer in place so that its
// targets satisfy a geometric invariant. prev is the pre-step buffer and is
// read-only; restitution responses scale the pre-step velocity found there.
// Constraints run in registration order, each seeing the cumulative repairs
// of the ones before it.
type Constraint interface {
	Constrain(prev, curr Buffer, tun Tuning)
}

// Deriver produces the state derivative of a buffer: position-dot is
// velocity, velocity-dot is accumulated force over mass, every other field
// has zero derivative. Implementations re-run the force pass when handed an
// intermediate sample, which is what multi-stage integrators rely on.
type Deriver interface {
	Derive(s Buffer) Buffer
}

// Integrator advances s by dt given its derivative sdot. Multi-stage
// schemes use d to re-derive at intermediate samples; single-stage schemes
// ignore it. The returned buffer is freshly allocated or recycled scratch
// owned by the integrator, never s itself.
type Integrator interface {
	Step(d Deriver, s, sdot Buffer, dt float64) Buffer
}

// Tuning is the shared, externally adjustable configuration read by the
// core every step. It is passed explicitly rather than read from globals so
// the core is testable in isolation.
type Tuning struct {
	// Dt is the simulation timestep in seconds.
	Dt float64
	// Drag is the fraction of speed retained across an impulsive bounce,
	// multiplied with each constraint's own restitution.
	Drag float64
	// Gravity is the default field strength scene factories wire into
	// gravity forces.
	Gravity float64
	// Restitution is the default bounce coefficient for scene factories.
	Restitution float64
}

// DefaultTuning returns the tuning used by the stock scenes.
func DefaultTuning() Tuning {
	return Tuning{
		Dt:          1.0 / 60.0,
		Drag:        0.985,
		Gravity:     9.8,
		Restitution: 0.85,
	}
}
