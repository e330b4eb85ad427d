// Package psys provides the core primitives shared by every part of the
// particle engine.
//
// The package defines the flat state-buffer layout and the interfaces that
// the rest of the engine is built against:
//
//   - [Buffer]: flat float64 array holding one fixed-size record per particle
//   - [Force]: accumulates into particles' force fields each step
//   - [Constraint]: repairs position/velocity after integration
//   - [Integrator]: advances a buffer by one timestep given its derivative
//   - [Deriver]: produces the state derivative of a buffer
//
// # Layout
//
// Every particle occupies exactly [RecordSize] consecutive floats in the
// order position (3), velocity (3), force accumulator (3), color RGBA (4),
// mass, radius, age. All producers and consumers address the buffer through
// [Offset] and the field constants; the layout is the ABI of the engine and
// a mismatch silently corrupts unrelated fields.
//
// # Thread Safety
//
// Buffers are exclusively owned by one simulation system and are stepped
// frame-synchronously. Forces and constraints receive buffer references for
// the duration of a single call and must not retain them.
package psys
