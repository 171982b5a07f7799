package config

import (
	"fmt"

	"hereafter/pkg/geo"
)

// DefaultUnlockCron fires the unlock sweep daily at 09:00 local time.
const DefaultUnlockCron = "0 9 * * *"

// Config is the main configuration struct, populated from YAML, env
// and flags in that order of increasing precedence.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Unlock    UnlockConfig    `yaml:"unlock"`
	Proximity ProximityConfig `yaml:"proximity"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the local HTTP listener settings. The API is a
// loopback surface for the UI shell, not a public server.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	// RateLimit guards against a misbehaving UI loop hammering the
	// full-rewrite store.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures the token-bucket request limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// StorageConfig holds the data directory; the messages file and the
// settings database both live under it.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// UnlockConfig controls the background unlock sweep.
type UnlockConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	// AllowToday permits same-day unlock dates at composition time.
	AllowToday bool `yaml:"allow_today"`
}

// ProximityConfig sets the default nearby radius.
type ProximityConfig struct {
	RadiusMeters float64 `yaml:"radius_meters"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file, env or flag
// says otherwise.
func Default() *Config {
	c := &Config{}
	c.Server.Address = "127.0.0.1"
	c.Server.Port = 7643
	c.Server.RateLimit.RPS = 50
	c.Server.RateLimit.Burst = 100
	c.Storage.DataDir = "./data"
	c.Unlock.Enabled = true
	c.Unlock.Cron = DefaultUnlockCron
	c.Proximity.RadiusMeters = geo.DefaultRadiusMeters
	c.Logging.Level = "info"
	return c
}

// Addr renders the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
