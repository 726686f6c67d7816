package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ReceiverConfig drives the consumer process: the TCP ingest listener and
// the admin HTTP surface.
type ReceiverConfig struct {
	Name              string   `toml:"name"`
	Addr              string   `toml:"addr"`
	AdminAddr         string   `toml:"admin_addr"`
	CorsOrigins       []string `toml:"cors_origins"`
	ReadIdleTimeoutMS int64    `toml:"read_idle_timeout_ms"`
}

func DefaultReceiverConfig() ReceiverConfig {
	return ReceiverConfig{
		Name:      "receiver",
		Addr:      "127.0.0.1:12345",
		AdminAddr: "127.0.0.1:7070",
	}
}

func (c ReceiverConfig) ReadIdleTimeout() time.Duration {
	return time.Duration(c.ReadIdleTimeoutMS) * time.Millisecond
}

// LoadReceiverConfig reads path over the defaults. An empty path keeps the
// defaults untouched.
func LoadReceiverConfig(path string) (ReceiverConfig, error) {
	cfg := DefaultReceiverConfig()
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return ReceiverConfig{}, err
		}
	}
	if cfg.Name == "" {
		cfg.Name = "receiver"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:12345"
	}
	if err := ValidateReceiverConfig(cfg); err != nil {
		return ReceiverConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateReceiverConfig(cfg ReceiverConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("receiver config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("receiver config missing addr")
	}
	if cfg.ReadIdleTimeoutMS < 0 {
		return fmt.Errorf("receiver config read_idle_timeout_ms must not be negative")
	}
	return nil
}
