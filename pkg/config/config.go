// Package config loads the netwatch configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

var validate = validator.New()

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"min=1s"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"min=1s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" validate:"min=1s"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Config is the full netwatch configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Analysis netgraph.Config `yaml:"analysis"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8090",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Analysis: netgraph.DefaultConfig(),
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration file at path, applies environment
// overrides, and validates the result. An empty path yields the
// defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration. Struct tags cover the server and
// logging sections; the analysis thresholds carry their own range
// checks.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Errorf("config %s: failed %q validation", fe.Namespace(), fe.Tag()))
			}
			return errors.Join(msgs...)
		}
		return err
	}
	return c.Analysis.Validate()
}

// Environment overrides, applied after file values.
//
//	NETWATCH_ADDR                  server listen address
//	NETWATCH_LOG_LEVEL             log level
//	NETWATCH_INFERENCE_ENABLED     true/false
//	NETWATCH_INFERENCE_WINDOW      duration, e.g. 30s
//	NETWATCH_INFERENCE_THRESHOLD   float in [0,1]
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NETWATCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("NETWATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NETWATCH_INFERENCE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analysis.InferenceEnabled = b
		}
	}
	if v := os.Getenv("NETWATCH_INFERENCE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Analysis.InferenceWindow = d
		}
	}
	if v := os.Getenv("NETWATCH_INFERENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.InferenceThreshold = f
		}
	}
}
