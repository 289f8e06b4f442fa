package ws

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Binary frame layout, little endian:
//
//	0  uint64  frame id
//	8  uint32  resolution
//	12 uint8   current function
//	13 uint8   pending function
//	14 uint8   1 while transitioning
//	15 uint8   reserved
//	16 float32 eased blend factor
//	20 float32 x, y, z per point, row-major
const headerSize = 20

var errShortFrame = errors.New("ws: frame too short")

type Header struct {
	FrameID       uint64
	Resolution    uint32
	Current       surface.Name
	Pending       surface.Name
	Transitioning bool
	Blend         float32
}

func headerFor(id uint64, resolution int, st sequence.State) Header {
	h := Header{
		FrameID:    id,
		Resolution: uint32(resolution),
		Current:    st.Current,
		Pending:    st.Current,
	}
	if st.Transitioning {
		h.Pending = st.Pending
		h.Transitioning = true
		h.Blend = surface.SmoothStep(0, 1, st.Progress)
	}
	return h
}

// EncodeFrame appends the header and points to dst.
func EncodeFrame(dst []byte, h Header, pts []surface.Point) []byte {
	need := headerSize + 12*len(pts)
	if cap(dst) < need {
		dst = make([]byte, 0, need)
	}
	dst = dst[:need]

	binary.LittleEndian.PutUint64(dst[0:], h.FrameID)
	binary.LittleEndian.PutUint32(dst[8:], h.Resolution)
	dst[12] = byte(h.Current)
	dst[13] = byte(h.Pending)
	dst[14] = 0
	if h.Transitioning {
		dst[14] = 1
	}
	dst[15] = 0
	binary.LittleEndian.PutUint32(dst[16:], math.Float32bits(h.Blend))

	off := headerSize
	for _, p := range pts {
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(dst[off+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(dst[off+8:], math.Float32bits(p.Z))
		off += 12
	}
	return dst
}

// DecodeFrame is the inverse of EncodeFrame; viewers and tests use it.
func DecodeFrame(b []byte) (Header, []surface.Point, error) {
	if len(b) < headerSize || (len(b)-headerSize)%12 != 0 {
		return Header{}, nil, errShortFrame
	}
	h := Header{
		FrameID:       binary.LittleEndian.Uint64(b[0:]),
		Resolution:    binary.LittleEndian.Uint32(b[8:]),
		Current:       surface.Name(b[12]),
		Pending:       surface.Name(b[13]),
		Transitioning: b[14] == 1,
		Blend:         math.Float32frombits(binary.LittleEndian.Uint32(b[16:])),
	}
	pts := make([]surface.Point, (len(b)-headerSize)/12)
	off := headerSize
	for i := range pts {
		pts[i].X = math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
		pts[i].Y = math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:]))
		pts[i].Z = math.Float32frombits(binary.LittleEndian.Uint32(b[off+8:]))
		off += 12
	}
	return h, pts, nil
}
