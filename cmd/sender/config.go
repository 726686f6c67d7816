package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/quantfeed/tickwire/internal/feed"
)

// senderSettings is the resolved sender configuration: transport behavior
// plus the mock generator seed.
type senderSettings struct {
	Feed feed.Config
	Seed int64
}

type fileConfig struct {
	Addr           string `toml:"addr"`
	Interval       string `toml:"interval"`
	IntervalMS     int64  `toml:"interval_ms"`
	ConnectTimeout string `toml:"connect_timeout"`
	MaxEvents      int    `toml:"max_events"`
	Seed           int64  `toml:"seed"`
}

func defaultSenderSettings() senderSettings {
	return senderSettings{Feed: feed.DefaultConfig()}
}

func loadSenderSettings(path string) (senderSettings, error) {
	cfg := defaultSenderSettings()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return senderSettings{}, fmt.Errorf("load sender config: %w", err)
	}

	if meta.IsDefined("addr") {
		if addr := strings.TrimSpace(raw.Addr); addr != "" {
			cfg.Feed.Addr = addr
		}
	}
	if meta.IsDefined("interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Interval))
		if err != nil {
			return senderSettings{}, fmt.Errorf("parse interval: %w", err)
		}
		cfg.Feed.Interval = d
	}
	if meta.IsDefined("interval_ms") {
		cfg.Feed.Interval = time.Duration(raw.IntervalMS) * time.Millisecond
	}
	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return senderSettings{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.Feed.ConnectTimeout = d
	}
	if meta.IsDefined("max_events") {
		cfg.Feed.MaxEvents = raw.MaxEvents
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}

	if cfg.Feed.Interval <= 0 {
		return senderSettings{}, fmt.Errorf("sender config interval must be positive")
	}
	return cfg, nil
}
