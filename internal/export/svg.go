// Package export renders static artifacts out of a run: an svg scatter
// snapshot of the particle field and an svg curve of the energy log.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/kobrakid/partsim/internal/psys"
	"github.com/kobrakid/partsim/internal/telemetry"
)

// SnapshotSVG projects the buffer's particles onto the x/z plane as
// filled circles, scaled to fit the viewport with 10% padding. Particle
// color and radius come straight from the records.
func SnapshotSVG(s psys.Buffer, width, height int) string {
	n := s.Count()

	minX, maxX := 0.0, 1.0
	minZ, maxZ := 0.0, 1.0
	for i := 0; i < n; i++ {
		x, z := s.At(i, psys.PosX), s.At(i, psys.PosZ)
		if i == 0 {
			minX, maxX, minZ, maxZ = x, x, z, z
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

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX < psys.Eps {
		rangeX = 1
	}
	if rangeZ < psys.Eps {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	minZ -= rangeZ * 0.1
	rangeX *= 1.2
	rangeZ *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	scale := float64(width) / rangeX
	for i := 0; i < n; i++ {
		cx := (s.At(i, psys.PosX) - minX) / rangeX * float64(width)
		cy := float64(height) - (s.At(i, psys.PosZ)-minZ)/rangeZ*float64(height)

		r := s.At(i, psys.Radius) * scale
		if r < 1 {
			r = 1
		}
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="rgb(%d,%d,%d)" fill-opacity="%.2f"/>`+"\n",
			cx, cy, r,
			channel(s.At(i, psys.ColR)),
			channel(s.At(i, psys.ColG)),
			channel(s.At(i, psys.ColB)),
			clamp01(s.At(i, psys.ColA))))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// EnergySVG draws the kinetic energy series as a polyline.
func EnergySVG(records []telemetry.StepRecord, width, height int, strokeColor string) string {
	if len(records) < 2 {
		return ""
	}

	minE, maxE := records[0].KineticEnergy, records[0].KineticEnergy
	for _, rec := range records {
		if rec.KineticEnergy < minE {
			minE = rec.KineticEnergy
		}
		if rec.KineticEnergy > maxE {
			maxE = rec.KineticEnergy
		}
	}
	rangeE := maxE - minE
	if rangeE == 0 {
		rangeE = 1
	}
	minE -= rangeE * 0.1
	rangeE *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, rec := range records {
		x := float64(i) / float64(len(records)-1) * float64(width)
		y := float64(height) - (rec.KineticEnergy-minE)/rangeE*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteSnapshot renders the buffer to an svg file.
func WriteSnapshot(path string, s psys.Buffer, width, height int) error {
	return os.WriteFile(path, []byte(SnapshotSVG(s, width, height)), 0644)
}

func channel(v float64) int {
	return int(clamp01(v) * 255)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
