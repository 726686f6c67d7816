package wire

import "fmt"

// Kind is the single-byte tag that selects a frame layout.
type Kind uint8

const (
	KindLog         Kind = 1
	KindMatch       Kind = 2
	KindPriceUpdate Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindMatch:
		return "match"
	case KindPriceUpdate:
		return "price_update"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Match sides carried on the wire.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// MaxTextLen is the largest text field the u16 length prefix can describe.
const MaxTextLen = 65535

// Event is one telemetry stream message. Implementations are immutable
// value types; a decoded Event is a fresh value owned by the caller.
type Event interface {
	Kind() Kind
	Validate() error
}

// LogEvent is a system log line from the producer.
type LogEvent struct {
	Level   string
	Message string
}

func (LogEvent) Kind() Kind { return KindLog }

func (e LogEvent) Validate() error {
	if err := checkText(KindLog, "level", e.Level); err != nil {
		return err
	}
	return checkText(KindLog, "message", e.Message)
}

// MatchEvent is one executed trade.
type MatchEvent struct {
	Side     string
	Quantity uint32
	Symbol   string
	Price    float32
}

func (MatchEvent) Kind() Kind { return KindMatch }

func (e MatchEvent) Validate() error {
	if e.Side != SideBuy && e.Side != SideSell {
		return &EncodeError{Kind: KindMatch, Field: "side", Reason: fmt.Sprintf("must be %q or %q", SideBuy, SideSell)}
	}
	return checkText(KindMatch, "symbol", e.Symbol)
}

// PriceUpdateEvent is one instrument price move.
type PriceUpdateEvent struct {
	Symbol   string
	OldPrice float32
	NewPrice float32
}

func (PriceUpdateEvent) Kind() Kind { return KindPriceUpdate }

func (e PriceUpdateEvent) Validate() error {
	return checkText(KindPriceUpdate, "symbol", e.Symbol)
}

func checkText(k Kind, field, value string) error {
	if len(value) > MaxTextLen {
		return &EncodeError{Kind: k, Field: field, Reason: fmt.Sprintf("length %d exceeds %d", len(value), MaxTextLen)}
	}
	return nil
}
