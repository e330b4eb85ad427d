package solver

import "github.com/kobrakid/partsim/internal/psys"

// AdamsBashforth is the 2-step explicit scheme
// s2 = s1 + 1.5*dt*s1dot - 0.5*dt*s0dot, retaining the previous step's
// derivative. The first step (or a particle-count change) falls back to
// explicit Euler to bootstrap the history.
type AdamsBashforth struct {
	prevDot psys.Buffer
}

func NewAdamsBashforth() *AdamsBashforth {
	return &AdamsBashforth{}
}

func (a *AdamsBashforth) Step(_ psys.Deriver, s, sdot psys.Buffer, dt float64) psys.Buffer {
	n := len(s)
	result := make(psys.Buffer, n)

	if len(a.prevDot) != n {
		for i := 0; i < n; i++ {
			result[i] = s[i] + dt*sdot[i]
		}
		a.prevDot = make(psys.Buffer, n)
	} else {
		for i := 0; i < n; i++ {
			result[i] = s[i] + dt*(1.5*sdot[i]-0.5*a.prevDot[i])
		}
	}

	copy(a.prevDot, sdot)
	return result
}
