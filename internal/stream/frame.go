// Package stream serves the published particle buffers to websocket
// clients as binary float32 frames. It is a presentation boundary: the
// payload is the flat buffer, rendering happens on the other side.
package stream

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kobrakid/partsim/internal/psys"
	"github.com/kobrakid/partsim/internal/sim"
)

// Frame layout, little-endian:
//
//	u32 number of systems
//	per system: u32 particle count, u32 record size, then
//	count*recordSize f32 values
const frameHeader = 4

// EncodeFrame packs every system's published buffer into dst, reusing its
// capacity. Pass dst[:0] of a recycled buffer to avoid allocation.
func EncodeFrame(dst []byte, systems []*sim.System) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(systems)))
	for _, sys := range systems {
		s := sys.Current()
		dst = binary.LittleEndian.AppendUint32(dst, uint32(s.Count()))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(psys.RecordSize))
		for _, v := range s {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
		}
	}
	return dst
}

// DecodeFrame parses an encoded frame back into one float32 slice per
// system. Used by tests and diagnostic clients.
func DecodeFrame(data []byte) ([][]float32, error) {
	if len(data) < frameHeader {
		return nil, fmt.Errorf("frame truncated: %d bytes", len(data))
	}
	numSystems := binary.LittleEndian.Uint32(data)
	off := frameHeader

	systems := make([][]float32, 0, numSystems)
	for i := uint32(0); i < numSystems; i++ {
		if len(data)-off < 8 {
			return nil, fmt.Errorf("frame truncated in system %d header", i)
		}
		count := binary.LittleEndian.Uint32(data[off:])
		recSize := binary.LittleEndian.Uint32(data[off+4:])
		off += 8

		n := int(count) * int(recSize)
		if len(data)-off < n*4 {
			return nil, fmt.Errorf("frame truncated in system %d payload", i)
		}
		vals := make([]float32, n)
		for j := range vals {
			vals[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		systems = append(systems, vals)
	}
	if off != len(data) {
		return nil, fmt.Errorf("frame has %d trailing bytes", len(data)-off)
	}
	return systems, nil
}
