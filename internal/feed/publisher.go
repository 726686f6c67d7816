package feed

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfeed/tickwire/internal/observability"
	"github.com/quantfeed/tickwire/internal/wire"
)

// Config defines one publisher's transport and pacing behavior.
type Config struct {
	Addr           string
	Interval       time.Duration
	ConnectTimeout time.Duration
	// MaxEvents stops the publisher after N events; 0 streams forever.
	MaxEvents int
	Backoff   Backoff
}

func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:12345",
		Interval:       500 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
		Backoff:        DefaultBackoff(),
	}
}

var errAllPublished = errors.New("feed: all events published")

// Publisher drives exactly one connection's write side at a time. A second
// writer on the same connection would interleave bytes and corrupt framing,
// so Publisher never shares its encoder.
type Publisher struct {
	cfg       Config
	gen       *Generator
	logger    zerolog.Logger
	rng       *rand.Rand
	published int
}

func NewPublisher(cfg Config, gen *Generator, logger zerolog.Logger) *Publisher {
	return &Publisher{
		cfg:    cfg,
		gen:    gen,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Published reports how many frames reached the transport.
func (p *Publisher) Published() int { return p.published }

// Run connects, streams events at the configured interval, and reconnects
// with backoff until ctx is cancelled or MaxEvents is reached.
func (p *Publisher) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := p.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			attempt++
			delay := p.cfg.Backoff.Delay(attempt, p.rng)
			p.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("connect failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0
		p.logger.Info().Str("addr", conn.RemoteAddr().String()).Msg("connected")

		err = p.stream(ctx, conn)
		_ = conn.Close()
		switch {
		case errors.Is(err, errAllPublished):
			p.logger.Info().Int("published", p.published).Msg("done")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		}
		p.logger.Warn().Err(err).Msg("stream interrupted, reconnecting")
	}
}

func (p *Publisher) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.cfg.ConnectTimeout}
	return d.DialContext(ctx, "tcp", p.cfg.Addr)
}

func (p *Publisher) stream(ctx context.Context, conn net.Conn) error {
	enc := wire.NewEncoder(conn)
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ev := p.gen.Next()
			if err := enc.Encode(ev); err != nil {
				var encErr *wire.EncodeError
				if errors.As(err, &encErr) {
					// Marshal failed before any byte hit the wire; the
					// connection framing is still intact.
					p.logger.Error().Err(err).Msg("dropping unencodable event")
					continue
				}
				return err
			}
			p.published++
			observability.RecordFramePublished(ev.Kind().String())
			if p.cfg.MaxEvents > 0 && p.published >= p.cfg.MaxEvents {
				return errAllPublished
			}
		}
	}
}
