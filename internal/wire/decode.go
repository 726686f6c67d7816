package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Decoder reassembles frames from a byte stream and yields typed events.
// Chunk boundaries are arbitrary: every read goes through a read-exact
// primitive that blocks until the full unit is available, so no byte is
// interpreted before the decoder holds the complete unit it belongs to.
//
// A Decoder is single-reader and not restartable: after any error it stays
// failed, and a new connection gets a new Decoder.
type Decoder struct {
	r       io.Reader
	scratch [maxHeaderSize]byte
	err     error
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next event on the stream. A stream that closes exactly
// on a frame boundary ends with io.EOF; closing mid-frame yields
// ErrIncompleteFrame; an unknown tag yields a ProtocolError without
// consuming any payload bytes. Transport errors propagate as-is.
func (d *Decoder) Next() (Event, error) {
	if d.err != nil {
		return nil, d.err
	}
	ev, err := d.next()
	if err != nil {
		d.err = err
	}
	return ev, err
}

func (d *Decoder) next() (Event, error) {
	tag := d.scratch[:1]
	if _, err := io.ReadFull(d.r, tag); err != nil {
		// EOF before the tag byte is a clean end of stream.
		return nil, err
	}

	k := Kind(tag[0])
	lay, ok := layouts[k]
	if !ok {
		return nil, &ProtocolError{Tag: tag[0]}
	}

	header := d.scratch[:lay.headerSize()]
	if err := d.readExact(header); err != nil {
		return nil, err
	}

	var (
		data    frameData
		lengths []int
		off     int
	)
	for _, slot := range lay {
		switch slot {
		case slotLen:
			lengths = append(lengths, int(binary.BigEndian.Uint16(header[off:])))
		case slotU32:
			data.u32s = append(data.u32s, binary.BigEndian.Uint32(header[off:]))
		case slotF32:
			data.f32s = append(data.f32s, math.Float32frombits(binary.BigEndian.Uint32(header[off:])))
		}
		off += slot.width()
	}

	total := 0
	for _, n := range lengths {
		total += n
	}
	payload := make([]byte, total)
	if err := d.readExact(payload); err != nil {
		return nil, err
	}

	data.texts = make([]string, len(lengths))
	off = 0
	for i, n := range lengths {
		data.texts[i] = string(payload[off : off+n])
		off += n
	}
	return buildEvent(k, data), nil
}

// readExact fills buf completely or fails. Inside a frame, end of stream in
// any form means the peer disconnected mid-frame.
func (d *Decoder) readExact(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrIncompleteFrame
		}
		return err
	}
	return nil
}
