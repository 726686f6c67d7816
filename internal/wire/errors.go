package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTag marks a frame tag outside the layout table.
	ErrUnknownTag = errors.New("wire: unknown tag")
	// ErrIncompleteFrame marks a stream that ended mid-frame.
	ErrIncompleteFrame = errors.New("wire: incomplete frame")
)

// EncodeError reports a field value that cannot be represented on the wire.
type EncodeError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("wire: encode %s field %s: %s", e.Kind, e.Field, e.Reason)
}

// ProtocolError reports an unrecoverable framing violation. The format has
// no resynchronization marker, so the connection cannot be reused.
type ProtocolError struct {
	Tag byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wire: unknown tag 0x%02x", e.Tag)
}

func (e *ProtocolError) Unwrap() error { return ErrUnknownTag }
