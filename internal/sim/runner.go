package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/kobrakid/partsim/internal/psys"
)

// Observer is notified after every completed step with the published
// buffer. The buffer must not be retained past the call.
type Observer interface {
	OnStep(s psys.Buffer, step int, t float64)
}

// Result summarizes a headless run.
type Result struct {
	StepsTaken int
	Errors     []error
}

// Runner drives one system for a fixed number of steps without any
// presentation surface attached.
type Runner struct {
	sys       *System
	tun       psys.Tuning
	observers []Observer
}

func NewRunner(sys *System, tun psys.Tuning) *Runner {
	return &Runner{sys: sys, tun: tun}
}

func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Run advances the system steps times, validating the buffer after every
// step. A NaN/Inf state stops the run with a StepError; context
// cancellation returns the partial result with ctx.Err().
func (r *Runner) Run(ctx context.Context, steps int) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", psys.ErrBadParam, steps)
	}
	if r.tun.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %v", psys.ErrBadParam, r.tun.Dt)
	}

	result := &Result{}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.sys.Step(r.tun)
		result.StepsTaken++
		t := float64(i+1) * r.tun.Dt

		if !r.sys.Current().IsValid() {
			result.Errors = append(result.Errors, &psys.StepError{
				Step:    i,
				Time:    t,
				Wrapped: psys.ErrInvalidState,
			})
			break
		}

		for _, obs := range r.observers {
			obs.OnStep(r.sys.Current(), i, t)
		}
	}
	return result, nil
}

// Ensemble runs independently seeded copies of the same scene in parallel,
// one goroutine per run. The build function must return a fresh System for
// every call; runs share nothing.
type Ensemble struct {
	build     func(seed int64) (*System, error)
	tun       psys.Tuning
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func(seed int64) (*System, error), tun psys.Tuning, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, tun: tun, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sys, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = NewRunner(sys, e.tun).Run(ctx, steps)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
