package wire

// slotKind is one fixed-width header slot in a frame layout.
type slotKind uint8

const (
	// slotLen is a u16 byte length for one trailing text field.
	slotLen slotKind = iota
	// slotU32 is a big-endian u32 value.
	slotU32
	// slotF32 is a big-endian IEEE-754 float32 value.
	slotF32
)

func (s slotKind) width() int {
	if s == slotLen {
		return 2
	}
	return 4
}

// layout lists a frame's fixed header slots in wire order. Every slotLen
// slot owns one run of text bytes after the header, in slot order, so the
// whole header can be read before any variable-length byte is needed.
type layout []slotKind

// layouts is the single schema table both Marshal and Decoder walk.
// Slot order here is the wire order; nothing else decides it.
var layouts = map[Kind]layout{
	KindLog:         {slotLen, slotLen},
	KindMatch:       {slotLen, slotLen, slotU32, slotF32},
	KindPriceUpdate: {slotLen, slotF32, slotF32},
}

// maxHeaderSize is the largest fixed header across all layouts (Match).
const maxHeaderSize = 12

func (l layout) headerSize() int {
	n := 0
	for _, s := range l {
		n += s.width()
	}
	return n
}

// frameData holds a frame's values grouped by slot kind, each group in
// slot order.
type frameData struct {
	texts []string
	u32s  []uint32
	f32s  []float32
}

// splitEvent maps an event onto its layout's slot groups. Only the three
// concrete event structs have a wire representation; any other Event
// implementation is rejected here even if its Kind() names a valid tag.
func splitEvent(e Event) (frameData, bool) {
	switch ev := e.(type) {
	case LogEvent:
		return frameData{texts: []string{ev.Level, ev.Message}}, true
	case MatchEvent:
		return frameData{
			texts: []string{ev.Side, ev.Symbol},
			u32s:  []uint32{ev.Quantity},
			f32s:  []float32{ev.Price},
		}, true
	case PriceUpdateEvent:
		return frameData{
			texts: []string{ev.Symbol},
			f32s:  []float32{ev.OldPrice, ev.NewPrice},
		}, true
	default:
		return frameData{}, false
	}
}

// buildEvent is splitEvent's inverse for decoded slot groups.
func buildEvent(k Kind, d frameData) Event {
	switch k {
	case KindLog:
		return LogEvent{Level: d.texts[0], Message: d.texts[1]}
	case KindMatch:
		return MatchEvent{Side: d.texts[0], Quantity: d.u32s[0], Symbol: d.texts[1], Price: d.f32s[0]}
	case KindPriceUpdate:
		return PriceUpdateEvent{Symbol: d.texts[0], OldPrice: d.f32s[0], NewPrice: d.f32s[1]}
	default:
		return nil
	}
}
