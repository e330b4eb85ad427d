// Package tui renders a live terminal view of a running world: an ascii
// projection of the particle field with a kinetic energy sparkline.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/kobrakid/partsim/internal/psys"
	"github.com/kobrakid/partsim/internal/sim"
	"github.com/kobrakid/partsim/internal/solver"
)

const (
	canvasWidth  = 72
	canvasHeight = 20
	historyLen   = 120
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model driving the live view. It owns the world
// for the duration of the program.
type Model struct {
	world *sim.World
	scene string

	schemes   []string
	schemeIdx int

	history []float64
	steps   int

	width  int
	height int
}

func New(world *sim.World, scene, integrator string) Model {
	m := Model{
		world:   world,
		scene:   scene,
		schemes: solver.Names(),
		history: make([]float64, 0, historyLen),
		width:   80,
		height:  24,
	}
	for i, name := range m.schemes {
		if name == integrator {
			m.schemeIdx = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return m, tea.Quit
		case " ", "p":
			if m.world.Paused() {
				m.world.Resume()
			} else {
				m.world.Pause()
			}
		case "i":
			m.schemeIdx = (m.schemeIdx + 1) % len(m.schemes)
			// stateful schemes must not be shared, one instance per system
			for _, sys := range m.world.Systems() {
				if integ, err := solver.New(m.schemes[m.schemeIdx]); err == nil {
					sys.SetIntegrator(integ)
				}
			}
		case "+", "=":
			m.world.Tun.Dt *= 1.25
		case "-", "_":
			m.world.Tun.Dt /= 1.25
		}
		return m, nil

	case tickMsg:
		if !m.world.Paused() {
			m.world.Step()
			m.steps++
			m.history = append(m.history, m.world.KineticEnergy())
			if len(m.history) > historyLen {
				m.history = m.history[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	status := green.Render("running")
	if m.world.Paused() {
		status = yellow.Render("paused")
	}
	b.WriteString(cyan.Render("partsim") + "  " + white.Render(m.scene) + "  " + status + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("step %d  dt %.5f  scheme %s  ke %.3f",
		m.steps, m.world.Tun.Dt, m.schemes[m.schemeIdx], m.world.KineticEnergy())) + "\n\n")

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")

	if len(m.history) > 1 {
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(canvasWidth-8),
			asciigraph.Caption("kinetic energy")))
		b.WriteString("\n")
	}

	b.WriteString("\n" + dim.Render("space pause · i integrator · +/- dt · q quit") + "\n")
	return b.String()
}

// renderCanvas projects every particle onto the x/z plane and scales the
// cloud to fit the fixed ascii viewport.
func (m Model) renderCanvas() string {
	type cell struct {
		glyph rune
		sys   int
	}
	grid := make([][]cell, canvasHeight)
	for y := range grid {
		grid[y] = make([]cell, canvasWidth)
	}

	minX, maxX, minZ, maxZ := bounds(m.world.Systems())
	spanX := maxX - minX
	spanZ := maxZ - minZ
	if spanX < psys.Eps {
		spanX = 1
	}
	if spanZ < psys.Eps {
		spanZ = 1
	}

	for si, sys := range m.world.Systems() {
		glyph := systemGlyphs[si%len(systemGlyphs)]
		s := sys.Current()
		for i := 0; i < s.Count(); i++ {
			col := int((s.At(i, psys.PosX) - minX) / spanX * float64(canvasWidth-1))
			row := canvasHeight - 1 - int((s.At(i, psys.PosZ)-minZ)/spanZ*float64(canvasHeight-1))
			if col >= 0 && col < canvasWidth && row >= 0 && row < canvasHeight {
				grid[row][col] = cell{glyph: glyph, sys: si}
			}
		}
	}

	var b strings.Builder
	border := dim.Render("+" + strings.Repeat("-", canvasWidth) + "+")
	b.WriteString(border + "\n")
	for _, row := range grid {
		b.WriteString(dim.Render("|"))
		for _, c := range row {
			if c.glyph == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(systemStyles[c.sys%len(systemStyles)].Render(string(c.glyph)))
		}
		b.WriteString(dim.Render("|") + "\n")
	}
	b.WriteString(border + "\n")
	return b.String()
}

func bounds(systems []*sim.System) (minX, maxX, minZ, maxZ float64) {
	first := true
	for _, sys := range systems {
		s := sys.Current()
		for i := 0; i < s.Count(); i++ {
			x, z := s.At(i, psys.PosX), s.At(i, psys.PosZ)
			if first {
				minX, maxX, minZ, maxZ = x, x, z, z
				first = false
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if z < minZ {
				minZ = z
			}
			if z > maxZ {
				maxZ = z
			}
		}
	}
	return
}

// Run blocks until the user quits the live view.
func Run(world *sim.World, scene, integrator string) error {
	p := tea.NewProgram(New(world, scene, integrator), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
