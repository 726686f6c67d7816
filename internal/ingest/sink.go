package ingest

import (
	"github.com/rs/zerolog"

	"github.com/quantfeed/tickwire/internal/wire"
)

// Sink receives decoded events and, per broken connection, exactly one
// terminal error. It is the boundary to the external renderer; nothing past
// it is this repository's concern.
type Sink interface {
	HandleEvent(ev wire.Event)
	HandleError(err error)
}

// LogSink renders the stream into the structured log.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) HandleEvent(ev wire.Event) {
	switch ev := ev.(type) {
	case wire.LogEvent:
		s.logger.Info().
			Str("level", ev.Level).
			Str("message", ev.Message).
			Msg("log_line")
	case wire.MatchEvent:
		s.logger.Info().
			Str("side", ev.Side).
			Uint32("quantity", ev.Quantity).
			Str("symbol", ev.Symbol).
			Float32("price", ev.Price).
			Msg("match")
	case wire.PriceUpdateEvent:
		s.logger.Info().
			Str("symbol", ev.Symbol).
			Float32("old_price", ev.OldPrice).
			Float32("new_price", ev.NewPrice).
			Msg("price_update")
	default:
		s.logger.Warn().Str("kind", ev.Kind().String()).Msg("unhandled event")
	}
}

func (s *LogSink) HandleError(err error) {
	s.logger.Error().Err(err).Msg("stream terminated")
}
