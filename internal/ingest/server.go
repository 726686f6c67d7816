package ingest

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantfeed/tickwire/internal/observability"
	"github.com/quantfeed/tickwire/internal/wire"
)

// Config defines one listener's transport behavior.
type Config struct {
	Addr string
	// ReadIdleTimeout aborts a connection whose producer stalls mid-stream.
	// Zero disables the deadline. An aborted decoder is discarded, never
	// resumed: its buffer contents are ambiguous after a cancelled read.
	ReadIdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{Addr: "127.0.0.1:12345"}
}

// Server accepts producer connections and runs one decode loop per
// connection. Each connection owns its Decoder and buffer state; nothing is
// shared between connections, so one broken stream never affects another.
type Server struct {
	cfg    Config
	sink   Sink
	logger zerolog.Logger

	ln net.Listener
	wg sync.WaitGroup
}

func New(cfg Config, sink Sink, logger zerolog.Logger) *Server {
	return &Server{cfg: cfg, sink: sink, logger: logger}
}

// Listen binds the configured address. Split from Serve so tests can bind
// port 0 and read the assigned address back.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return nil
}

// Close stops the listener directly, without cancelling the serve context.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled, then waits for all
// decode loops to drain.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.ln.Close()
		case <-watcherDone:
		}
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			s.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks the decode loop's pending read.
			_ = conn.Close()
		case <-done:
		}
	}()

	logger := s.logger.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	observability.RecordConnectionOpened()
	logger.Info().Msg("producer connected")

	dec := wire.NewDecoder(&countingReader{r: conn})
	for {
		if s.cfg.ReadIdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadIdleTimeout))
		}
		ev, err := dec.Next()
		if err != nil {
			s.finish(ctx, logger, err)
			return
		}
		observability.RecordEventDecoded(ev.Kind().String())
		s.sink.HandleEvent(ev)
	}
}

// finish reports the end of one connection. A broken stream surfaces
// exactly one terminal error to the sink; a clean EOF or a local shutdown
// does not.
func (s *Server) finish(ctx context.Context, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, io.EOF):
		logger.Info().Msg("producer disconnected")
	case ctx.Err() != nil:
		logger.Info().Msg("connection closed on shutdown")
	default:
		reason := errorReason(err)
		observability.RecordDecodeError(reason)
		logger.Error().Err(err).Str("reason", reason).Msg("connection terminated")
		s.sink.HandleError(err)
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, wire.ErrUnknownTag):
		return "unknown_tag"
	case errors.Is(err, wire.ErrIncompleteFrame):
		return "incomplete_frame"
	default:
		return "transport"
	}
}

type countingReader struct {
	r io.Reader
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		observability.RecordBytesRead(n)
	}
	return n, err
}
