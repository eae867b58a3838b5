// Package config loads the container configuration: defaults, then an
// optional yaml file, then FCC_* environment overrides, then validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the complete container configuration.
type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Loop      LoopConfig      `yaml:"loop"`
	API       APIConfig       `yaml:"api"`
	Audit     AuditConfig     `yaml:"audit"`
	Recorder  RecorderConfig  `yaml:"recorder"`
}

// SimulatorConfig points at the flight-dynamics simulator. The endpoint is
// static; there is no discovery.
type SimulatorConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	ExchangeTimeoutMs int    `yaml:"exchangeTimeoutMs"`
}

// LoopConfig paces the exchange loop.
type LoopConfig struct {
	IntervalMs int `yaml:"intervalMs"`
}

// APIConfig configures the northbound observation API. An empty AuthSecret
// disables bearer authentication (development only).
type APIConfig struct {
	Addr                 string `yaml:"addr"`
	AuthSecret           string `yaml:"authSecret"`
	HeartbeatIntervalSec int    `yaml:"heartbeatIntervalSec"`
}

// AuditConfig configures the rotating exchange audit log.
type AuditConfig struct {
	Dir        string `yaml:"dir"`
	MaxSizeMb  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// RecorderConfig configures the sqlite flight recorder. An empty path
// disables recording.
type RecorderConfig struct {
	Path string `yaml:"path"`
}

// ExchangeTimeout returns the transport timeout as a duration.
func (c *Config) ExchangeTimeout() time.Duration {
	return time.Duration(c.Simulator.ExchangeTimeoutMs) * time.Millisecond
}

// LoopInterval returns the exchange loop cadence as a duration.
func (c *Config) LoopInterval() time.Duration {
	return time.Duration(c.Loop.IntervalMs) * time.Millisecond
}

// HeartbeatInterval returns the SSE heartbeat interval as a duration.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.API.HeartbeatIntervalSec) * time.Second
}

// Load merges defaults, the optional config file (config/default.yaml, or the
// path in FCC_CONFIG), and FCC_* environment overrides, then validates.
func Load() (*Config, error) {
	cfg := Default()

	if err := loadFromFile(cfg, "config/default.yaml"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path := os.Getenv("FCC_CONFIG"); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration: the FlightAxis Link endpoint
// the original ground station used, a one-second exchange timeout matching
// the simulator frame cadence, and the local API on :8000.
func Default() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			Host:              "192.168.0.5",
			Port:              18083,
			ExchangeTimeoutMs: 1000,
		},
		Loop: LoopConfig{
			IntervalMs: 20,
		},
		API: APIConfig{
			Addr:                 ":8000",
			HeartbeatIntervalSec: 15,
		},
		Audit: AuditConfig{
			Dir:        "logs",
			MaxSizeMb:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Recorder: RecorderConfig{},
	}
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("FCC_SIM_HOST"); host != "" {
		cfg.Simulator.Host = host
	}
	if port := os.Getenv("FCC_SIM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Simulator.Port = p
		}
	}
	if timeout := os.Getenv("FCC_EXCHANGE_TIMEOUT_MS"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil {
			cfg.Simulator.ExchangeTimeoutMs = ms
		}
	}
	if interval := os.Getenv("FCC_LOOP_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil {
			cfg.Loop.IntervalMs = ms
		}
	}
	if addr := os.Getenv("FCC_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if secret := os.Getenv("FCC_AUTH_SECRET"); secret != "" {
		cfg.API.AuthSecret = secret
	}
	if dir := os.Getenv("FCC_AUDIT_DIR"); dir != "" {
		cfg.Audit.Dir = dir
	}
	if path := os.Getenv("FCC_RECORDER_PATH"); path != "" {
		cfg.Recorder.Path = path
	}
}

// Validate rejects configurations that cannot drive a live vehicle safely.
func Validate(cfg *Config) error {
	if cfg.Simulator.Host == "" {
		return fmt.Errorf("simulator host must be set")
	}
	if cfg.Simulator.Port <= 0 || cfg.Simulator.Port > 65535 {
		return fmt.Errorf("simulator port %d is outside [1, 65535]", cfg.Simulator.Port)
	}
	if cfg.Simulator.ExchangeTimeoutMs <= 0 || cfg.Simulator.ExchangeTimeoutMs > 10000 {
		return fmt.Errorf("exchange timeout %d ms is outside reasonable range [1, 10000]", cfg.Simulator.ExchangeTimeoutMs)
	}
	// The exchange loop drives a ticker, which requires a positive period.
	if cfg.Loop.IntervalMs <= 0 || cfg.Loop.IntervalMs > 1000 {
		return fmt.Errorf("loop interval %d ms is outside reasonable range [1, 1000]", cfg.Loop.IntervalMs)
	}
	if cfg.API.HeartbeatIntervalSec <= 0 {
		return fmt.Errorf("heartbeat interval must be positive")
	}
	if cfg.Audit.Dir == "" {
		return fmt.Errorf("audit directory must be set")
	}
	if cfg.Audit.MaxSizeMb <= 0 {
		return fmt.Errorf("audit max size must be positive")
	}
	return nil
}
