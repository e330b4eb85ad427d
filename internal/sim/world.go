package sim

import (
	"sync"

	"github.com/kobrakid/partsim/internal/psys"
)

// World steps several systems frame-synchronously with one shared tuning.
// Systems advance sequentially in the order they were added; there is no
// cross-system data dependency. While paused, Step is a no-op and Frame
// keeps serving the last published buffers. The pause flag may be flipped
// from another goroutine; everything else is single-goroutine.
type World struct {
	Tun     psys.Tuning
	systems []*System
	frame   []float32

	mu     sync.Mutex
	paused bool
}

func NewWorld(tun psys.Tuning) *World {
	return &World{Tun: tun}
}

func (w *World) Add(sys *System) {
	w.systems = append(w.systems, sys)
}

func (w *World) Systems() []*System { return w.systems }

func (w *World) Step() {
	if w.Paused() {
		return
	}
	for _, sys := range w.systems {
		sys.Step(w.Tun)
	}
}

func (w *World) Pause() {
	w.mu.Lock()
	w.paused = true
	w.mu.Unlock()
}

func (w *World) Resume() {
	w.mu.Lock()
	w.paused = false
	w.mu.Unlock()
}

func (w *World) Paused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused
}

// Frame packs every system's published buffer into one shared float32
// frame, in add order. The slice is reused across calls; consumers copy
// what they keep.
func (w *World) Frame() []float32 {
	w.frame = w.frame[:0]
	for _, sys := range w.systems {
		w.frame = sys.AppendFrame(w.frame)
	}
	return w.frame
}

// KineticEnergy sums kinetic energy over all systems, the headline number
// for the live views.
func (w *World) KineticEnergy() float64 {
	ke := 0.0
	for _, sys := range w.systems {
		ke += sys.Current().KineticEnergy()
	}
	return ke
}
