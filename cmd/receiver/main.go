package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/quantfeed/tickwire/internal/admin"
	"github.com/quantfeed/tickwire/internal/config"
	"github.com/quantfeed/tickwire/internal/ingest"
	"github.com/quantfeed/tickwire/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "receiver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to receiver config file")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := logging.New("receiver")

	cfg, err := config.LoadReceiverConfig(*configPath)
	if err != nil {
		return err
	}
	logger.Info().
		Str("name", cfg.Name).
		Str("addr", cfg.Addr).
		Str("admin_addr", cfg.AdminAddr).
		Msg("starting")

	sink := ingest.NewLogSink(logging.New("tape"))
	srv := ingest.New(ingest.Config{
		Addr:            cfg.Addr,
		ReadIdleTimeout: cfg.ReadIdleTimeout(),
	}, sink, logger)
	if err := srv.Listen(); err != nil {
		return err
	}
	adminSrv := admin.New(cfg.Name, cfg.AdminAddr, cfg.CorsOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ctx) })
	g.Go(func() error { return adminSrv.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("shut down")
	return nil
}
