package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SolverConfig holds the Frank-Wolfe tuning knobs.
type SolverConfig struct {
	MaxIterations       int     `yaml:"max_iterations"`
	Tolerance           float64 `yaml:"tolerance"`
	LineSearchTolerance float64 `yaml:"line_search_tolerance"`
	Workers             int     `yaml:"workers"`
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Solver  SolverConfig  `yaml:"solver"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Solver: SolverConfig{
			MaxIterations:       500,
			Tolerance:           1e-6,
			LineSearchTolerance: 1e-10,
			Workers:             4,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. Missing keys keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration, collecting every violation.
func (c Config) Validate() error {
	return NewConfigValidator("Config").
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second).
		MinInt("Solver.MaxIterations", c.Solver.MaxIterations, 1).
		PositiveFloat("Solver.Tolerance", c.Solver.Tolerance).
		PositiveFloat("Solver.LineSearchTolerance", c.Solver.LineSearchTolerance).
		MinInt("Solver.Workers", c.Solver.Workers, 1).
		Err()
}
