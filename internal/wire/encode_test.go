package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
)

func TestMarshalMatchGoldenBytes(t *testing.T) {
	frame, err := Marshal(MatchEvent{Side: SideBuy, Quantity: 100, Symbol: "AAPL", Price: 172.34})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := []byte{0x02, 0x00, 0x03, 0x00, 0x04, 0x00, 0x00, 0x00, 0x64}
	want = binary.BigEndian.AppendUint32(want, math.Float32bits(172.34))
	want = append(want, "BUYAAPL"...)

	if !bytes.Equal(frame, want) {
		t.Fatalf("frame mismatch:\n got=%x\nwant=%x", frame, want)
	}
}

func TestMarshalDecodeRoundTrip(t *testing.T) {
	events := []Event{
		LogEvent{Level: "INFO", Message: "TCP server started on port 12345"},
		LogEvent{Level: "DEBUG", Message: ""},
		MatchEvent{Side: SideSell, Quantity: 5, Symbol: "BTC", Price: 67200.00},
		MatchEvent{Side: SideBuy, Quantity: 0, Symbol: "TSLA", Price: 187.90},
		PriceUpdateEvent{Symbol: "BTC/USD", OldPrice: 67203.00, NewPrice: 67210.50},
		PriceUpdateEvent{Symbol: "SPY", OldPrice: 528.75, NewPrice: 529.00},
	}
	for _, in := range events {
		frame, err := Marshal(in)
		if err != nil {
			t.Fatalf("marshal %v: %v", in, err)
		}
		out, err := NewDecoder(bytes.NewReader(frame)).Next()
		if err != nil {
			t.Fatalf("decode %v: %v", in, err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: got=%+v want=%+v", out, in)
		}
	}
}

func TestMarshalRejectsOversizedText(t *testing.T) {
	_, err := Marshal(LogEvent{Level: "INFO", Message: strings.Repeat("x", MaxTextLen+1)})
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if encErr.Field != "message" {
		t.Fatalf("unexpected field: %q", encErr.Field)
	}
}

func TestMarshalRejectsInvalidSide(t *testing.T) {
	_, err := Marshal(MatchEvent{Side: "HOLD", Quantity: 1, Symbol: "AAPL", Price: 1})
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if encErr.Kind != KindMatch || encErr.Field != "side" {
		t.Fatalf("unexpected detail: %+v", encErr)
	}
}

func TestMarshalMaxLengthTextFits(t *testing.T) {
	in := LogEvent{Level: "WARN", Message: strings.Repeat("y", MaxTextLen)}
	frame, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := NewDecoder(bytes.NewReader(frame)).Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch at max length")
	}
}

// impostorEvent claims a valid tag but is not one of the wire structs.
type impostorEvent struct{}

func (impostorEvent) Kind() Kind      { return KindLog }
func (impostorEvent) Validate() error { return nil }

func TestMarshalRejectsForeignEventType(t *testing.T) {
	_, err := Marshal(impostorEvent{})
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if encErr.Kind != KindLog || encErr.Reason != "unsupported event type" {
		t.Fatalf("unexpected detail: %+v", encErr)
	}
}

func TestEncoderWritesWholeFrames(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(PriceUpdateEvent{Symbol: "ETH/USD", OldPrice: 3212.45, NewPrice: 3217.10}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Encode(MatchEvent{Side: "BAD", Quantity: 1, Symbol: "ETH", Price: 1}); err == nil {
		t.Fatalf("expected encode error")
	}
	// The failed encode must not have emitted any bytes.
	dec := NewDecoder(bytes.NewReader(buf.Bytes()))
	if _, err := dec.Next(); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected clean EOF, got %v", err)
	}
}
