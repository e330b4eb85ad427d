package solver

import (
	"fmt"

	"github.com/kobrakid/partsim/internal/psys"
)

// New returns a fresh integrator for a scheme name. Each call returns an
// independent instance: stateful schemes must not be shared between
// systems.
func New(name string) (psys.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "midpoint":
		return NewMidpoint(), nil
	case "corrected":
		return NewMidpointCorrected(), nil
	case "adams":
		return NewAdamsBashforth(), nil
	default:
		return nil, fmt.Errorf("%w: %q (have %v)", psys.ErrUnknownScheme, name, Names())
	}
}

// Names lists the supported scheme names.
func Names() []string {
	return []string{"euler", "midpoint", "corrected", "adams"}
}
