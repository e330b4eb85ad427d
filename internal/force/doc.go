// Package force implements the engine's force generators. Each type is a
// separate struct with a validating constructor; Apply only ever
// accumulates into the force fields of its targets, so any set of forces
// composes by superposition.
package force
