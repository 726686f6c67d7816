package wire

import (
	"encoding/binary"
	"io"
	"math"
)

// Marshal encodes one event as a complete frame. It is pure: on error no
// bytes are returned, so a caller can never write a partial frame.
func Marshal(e Event) ([]byte, error) {
	if e == nil {
		return nil, &EncodeError{Reason: "nil event"}
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	lay, ok := layouts[e.Kind()]
	if !ok {
		return nil, &EncodeError{Kind: e.Kind(), Reason: "no layout for kind"}
	}

	d, ok := splitEvent(e)
	if !ok {
		return nil, &EncodeError{Kind: e.Kind(), Reason: "unsupported event type"}
	}
	textLen := 0
	for _, s := range d.texts {
		textLen += len(s)
	}

	buf := make([]byte, 0, 1+lay.headerSize()+textLen)
	buf = append(buf, byte(e.Kind()))

	ti, ui, fi := 0, 0, 0
	for _, slot := range lay {
		switch slot {
		case slotLen:
			buf = binary.BigEndian.AppendUint16(buf, uint16(len(d.texts[ti])))
			ti++
		case slotU32:
			buf = binary.BigEndian.AppendUint32(buf, d.u32s[ui])
			ui++
		case slotF32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(d.f32s[fi]))
			fi++
		}
	}
	for _, s := range d.texts {
		buf = append(buf, s...)
	}
	return buf, nil
}

// Encoder writes frames to one stream. Exactly one Encoder may drive a
// connection's write side; interleaved writers would corrupt framing.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode marshals e and writes the frame with a single Write call.
// Transport errors propagate as-is.
func (enc *Encoder) Encode(e Event) error {
	frame, err := Marshal(e)
	if err != nil {
		return err
	}
	_, err = enc.w.Write(frame)
	return err
}
