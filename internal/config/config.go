// Package config loads YAML configuration for the rs2go binaries.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Simulator holds all configuration for the ticksim binary.
type Simulator struct {
	// Simulation
	Players      int    `yaml:"players"`       // synthetic avatars to register
	Ticks        int    `yaml:"ticks"`         // 0 = run until interrupted
	TickInterval string `yaml:"tick_interval"` // duration, e.g. "600ms"
	Workers      int    `yaml:"workers"`       // 0 = NumCPU

	// Behaviour knobs (per mille of avatars acting each tick)
	WalkRate     int `yaml:"walk_rate"`
	RunRate      int `yaml:"run_rate"`
	TeleportRate int `yaml:"teleport_rate"`
	MaskRate     int `yaml:"mask_rate"`

	// Observability
	LogLevel    string `yaml:"log_level"`    // debug, info, warn, error
	MetricsAddr string `yaml:"metrics_addr"` // empty = no listener

	// Appearance store (optional)
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the appearance
// store. An empty Host disables persistence.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether an appearance store is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		Players:      200,
		Ticks:        0,
		TickInterval: "600ms",
		Workers:      0,
		WalkRate:     400,
		RunRate:      100,
		TeleportRate: 10,
		MaskRate:     50,
		LogLevel:     "info",
		Database: DatabaseConfig{
			Port:    5432,
			User:    "rs2go",
			DBName:  "rs2go",
			SSLMode: "disable",
		},
	}
}

// LoadSimulator loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Interval parses the tick interval, falling back to the default on garbage.
func (s Simulator) Interval() time.Duration {
	d, err := time.ParseDuration(s.TickInterval)
	if err != nil || d <= 0 {
		return 600 * time.Millisecond
	}
	return d
}

// SlogLevel maps the configured log level onto a slog level string name.
func (s Simulator) SlogLevel() string {
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
		return strings.ToLower(s.LogLevel)
	default:
		return "info"
	}
}
