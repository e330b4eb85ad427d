package solver

import "github.com/kobrakid/partsim/internal/psys"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(_ psys.Deriver, s, sdot psys.Buffer, dt float64) psys.Buffer {
	result := make(psys.Buffer, len(s))
	for i := range s {
		result[i] = s[i] + dt*sdot[i]
	}
	return result
}
