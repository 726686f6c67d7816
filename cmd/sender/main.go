package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantfeed/tickwire/internal/feed"
	"github.com/quantfeed/tickwire/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sender: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to sender config file")
	addr := flag.String("addr", "", "receiver address (overrides config)")
	count := flag.Int("count", 0, "stop after N events, 0 streams forever (overrides config)")
	interval := flag.Duration("interval", 0, "delay between events (overrides config)")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := logging.New("sender")

	cfg := defaultSenderSettings()
	if *configPath != "" {
		loaded, err := loadSenderSettings(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Feed.Addr = *addr
	}
	if *count > 0 {
		cfg.Feed.MaxEvents = *count
	}
	if *interval > 0 {
		cfg.Feed.Interval = *interval
	}

	logger.Info().
		Str("addr", cfg.Feed.Addr).
		Dur("interval", cfg.Feed.Interval).
		Int("max_events", cfg.Feed.MaxEvents).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pub := feed.NewPublisher(cfg.Feed, feed.NewGenerator(cfg.Seed), logger)
	start := time.Now()
	err := pub.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().
		Int("published", pub.Published()).
		Dur("elapsed", time.Since(start)).
		Msg("stopped")
	return nil
}
