package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

// chunkReader delivers a byte sequence split at caller-chosen boundaries,
// one chunk per Read call.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for len(r.chunks) > 0 && len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	return n, nil
}

func mustMarshal(t *testing.T, e Event) []byte {
	t.Helper()
	frame, err := Marshal(e)
	if err != nil {
		t.Fatalf("marshal %v: %v", e, err)
	}
	return frame
}

func drain(t *testing.T, dec *Decoder) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		out = append(out, ev)
	}
}

func TestDecoderMultiFrameOrdering(t *testing.T) {
	events := []Event{
		LogEvent{Level: "INFO", Message: "Trade executed: Order#14352 matched with Order#14349"},
		MatchEvent{Side: SideBuy, Quantity: 50, Symbol: "TSLA", Price: 187.90},
		PriceUpdateEvent{Symbol: "ETH/USD", OldPrice: 3212.45, NewPrice: 3217.10},
	}
	var stream bytes.Buffer
	enc := NewEncoder(&stream)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	got := drain(t, NewDecoder(bytes.NewReader(stream.Bytes())))
	if len(got) != len(events) {
		t.Fatalf("decoded %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i] != events[i] {
			t.Fatalf("event %d mismatch: got=%+v want=%+v", i, got[i], events[i])
		}
	}
}

func TestDecoderChunkingInvariance(t *testing.T) {
	events := []Event{
		MatchEvent{Side: SideSell, Quantity: 5, Symbol: "BTC", Price: 67200.00},
		LogEvent{Level: "DEBUG", Message: "Received order: ID#14352"},
		PriceUpdateEvent{Symbol: "SPY", OldPrice: 528.75, NewPrice: 529.00},
	}
	var stream []byte
	for _, e := range events {
		stream = append(stream, mustMarshal(t, e)...)
	}

	check := func(name string, r io.Reader) {
		got := drain(t, NewDecoder(r))
		if len(got) != len(events) {
			t.Fatalf("%s: decoded %d events, want %d", name, len(got), len(events))
		}
		for i := range events {
			if got[i] != events[i] {
				t.Fatalf("%s: event %d mismatch: got=%+v want=%+v", name, i, got[i], events[i])
			}
		}
	}

	check("whole", bytes.NewReader(stream))
	check("one byte at a time", iotest.OneByteReader(bytes.NewReader(stream)))

	// Every two-chunk split of the full stream.
	for i := 1; i < len(stream); i++ {
		first := append([]byte(nil), stream[:i]...)
		second := append([]byte(nil), stream[i:]...)
		check("split", &chunkReader{chunks: [][]byte{first, second}})
	}
}

func TestDecoderUnknownTagConsumesNoPayload(t *testing.T) {
	r := bytes.NewReader([]byte{0x09, 0xAA, 0xBB, 0xCC})
	_, err := NewDecoder(r).Next()
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) || protoErr.Tag != 0x09 {
		t.Fatalf("unexpected protocol error detail: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("payload bytes consumed after bad tag: %d left", r.Len())
	}
}

func TestDecoderTruncatedStream(t *testing.T) {
	frame := mustMarshal(t, MatchEvent{Side: SideBuy, Quantity: 100, Symbol: "AAPL", Price: 172.34})
	// Cut inside the header and inside the payload.
	for _, cut := range []int{2, 8, len(frame) - 1} {
		dec := NewDecoder(bytes.NewReader(frame[:cut]))
		ev, err := dec.Next()
		if !errors.Is(err, ErrIncompleteFrame) {
			t.Fatalf("cut=%d: expected ErrIncompleteFrame, got %v", cut, err)
		}
		if ev != nil {
			t.Fatalf("cut=%d: partial event surfaced: %+v", cut, ev)
		}
	}
}

func TestDecoderCleanEOF(t *testing.T) {
	if _, err := NewDecoder(bytes.NewReader(nil)).Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF on empty stream, got %v", err)
	}

	frame := mustMarshal(t, LogEvent{Level: "INFO", Message: "bye"})
	dec := NewDecoder(bytes.NewReader(frame))
	if _, err := dec.Next(); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at frame boundary, got %v", err)
	}
}

func TestDecoderStaysFailed(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{0x09}))
	if _, err := dec.Next(); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if _, err := dec.Next(); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("failed decoder must keep returning its error, got %v", err)
	}
}

func TestDecoderZeroLengthTextFields(t *testing.T) {
	frame := mustMarshal(t, LogEvent{})
	ev, err := NewDecoder(bytes.NewReader(frame)).Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev != (LogEvent{}) {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
