// Package constraint implements the geometric repairs applied after
// integration. A constraint inspects the post-step buffer, compares against
// the pre-step buffer where restitution needs the incoming velocity, and
// mutates the post-step buffer in place. Constraints run in registration
// order; each sees the cumulative repairs of the ones before it.
//
// An empty target set means "every particle in the buffer". Geometry is
// validated at construction and again on every live edit, so a malformed
// box or sphere never reaches the per-frame hot path.
package constraint
