// Package config defines the run configuration for netsweep and its
// loading, defaulting, and validation rules. A configuration value is
// constructed once before orchestration begins and is read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kmartell/netsweep/internal/logging"
)

// Phase selects which probe phases a run executes.
type Phase string

const (
	PhasePing Phase = "ping"
	PhaseScan Phase = "scan"
	PhaseBoth Phase = "both"
)

// IncludesPing reports whether the reachability phase runs.
func (p Phase) IncludesPing() bool {
	return p == PhasePing || p == PhaseBoth
}

// IncludesScan reports whether the port-scan phase runs.
func (p Phase) IncludesScan() bool {
	return p == PhaseScan || p == PhaseBoth
}

// Concurrency and capacity defaults.
const (
	DefaultConcurrency         = 50
	MinConcurrency             = 1
	MaxConcurrency             = 200
	DefaultMaxHosts            = 512
	DefaultLargeBatchThreshold = 500
	DefaultProbeTimeout        = time.Second
)

// Config is the complete netsweep configuration.
type Config struct {
	Sweep   SweepConfig    `yaml:"sweep" json:"sweep"`
	Metrics MetricsConfig  `yaml:"metrics" json:"metrics"`
	Logging logging.Config `yaml:"logging" json:"logging"`
}

// SweepConfig holds the orchestration settings for one run.
type SweepConfig struct {
	// Target is a single host, IP address, or CIDR range.
	Target string `yaml:"target" json:"target"`

	// Ports is the port specification, required for scan phases.
	Ports string `yaml:"ports" json:"ports"`

	// Phase selects ping, scan, or both.
	Phase Phase `yaml:"phase" json:"phase" validate:"oneof=ping scan both"`

	// Concurrency bounds the probe worker pool. Clamped to [1,200].
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"min=1,max=200"`

	// MaxHosts caps the expanded target set.
	MaxHosts int `yaml:"max_hosts" json:"max_hosts" validate:"min=1"`

	// LargeBatchThreshold gates runs whose hosts x ports product exceeds it.
	LargeBatchThreshold int `yaml:"large_batch_threshold" json:"large_batch_threshold" validate:"min=1"`

	// ConfirmLargeBatch overrides the large-batch gate.
	ConfirmLargeBatch bool `yaml:"confirm_large_batch" json:"confirm_large_batch"`

	// PingTimeout is the per-host reachability timeout.
	PingTimeout time.Duration `yaml:"ping_timeout" json:"ping_timeout"`

	// ConnectTimeout is the per-port TCP connect timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout"`

	// Prober selects the reachability implementation.
	Prober string `yaml:"prober" json:"prober" validate:"oneof=ping nmap"`

	// Resolve enables reverse DNS annotation of reachable hosts.
	Resolve bool `yaml:"resolve" json:"resolve"`

	// OutputFile, when set, receives every emitted report line.
	OutputFile string `yaml:"output_file" json:"output_file"`
}

// MetricsConfig holds the optional metrics endpoint settings.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Sweep: SweepConfig{
			Phase:               PhaseBoth,
			Concurrency:         DefaultConcurrency,
			MaxHosts:            DefaultMaxHosts,
			LargeBatchThreshold: DefaultLargeBatchThreshold,
			PingTimeout:         DefaultProbeTimeout,
			ConnectTimeout:      DefaultProbeTimeout,
			Prober:              "ping",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9641",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize clamps values into their effective ranges and fills zero values
// with defaults.
func (c *Config) Normalize() {
	s := &c.Sweep
	if s.Phase == "" {
		s.Phase = PhaseBoth
	}
	if s.Concurrency == 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.Concurrency < MinConcurrency {
		s.Concurrency = MinConcurrency
	}
	if s.Concurrency > MaxConcurrency {
		s.Concurrency = MaxConcurrency
	}
	if s.MaxHosts <= 0 {
		s.MaxHosts = DefaultMaxHosts
	}
	if s.LargeBatchThreshold <= 0 {
		s.LargeBatchThreshold = DefaultLargeBatchThreshold
	}
	if s.PingTimeout <= 0 {
		s.PingTimeout = DefaultProbeTimeout
	}
	if s.ConnectTimeout <= 0 {
		s.ConnectTimeout = DefaultProbeTimeout
	}
	if s.Prober == "" {
		s.Prober = "ping"
	}
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("invalid configuration: field %s failed %s validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
