// Package uwbd assembles the UWB ranging daemon: session manager,
// out-of-band transport, discovery advertisement and metrics, wired
// from one YAML configuration.
package uwbd

import (
	"fmt"
	"os"

	"github.com/pion/logging"
	"gopkg.in/yaml.v3"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/params"
)

// Default configuration values.
const (
	DefaultListenAddr  = ":58328"
	DefaultMaxSessions = 8
	DefaultLogLevel    = "info"
)

// Config is the daemon configuration, loaded from YAML.
type Config struct {
	// DeviceName is the human-readable name advertised over mDNS.
	DeviceName string `yaml:"device_name"`

	// MaxSessions caps concurrent ranging sessions.
	MaxSessions int `yaml:"max_sessions"`

	// ListenAddr is the out-of-band transport listen address.
	ListenAddr string `yaml:"listen_addr"`

	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel is one of trace, debug, info, warn, error, disabled.
	LogLevel string `yaml:"log_level"`

	// UwbsVersion is the FiRa protocol version of the UWB subsystem
	// ("major.minor").
	UwbsVersion string `yaml:"uwbs_version"`

	// Protocols lists the ranging protocols to advertise. Defaults to
	// fira.
	Protocols []string `yaml:"protocols"`

	// Device carries the per-device encoder feature switches.
	Device params.DeviceConfig `yaml:"device"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() Config {
	return Config{
		MaxSessions: DefaultMaxSessions,
		ListenAddr:  DefaultListenAddr,
		LogLevel:    DefaultLogLevel,
		UwbsVersion: fira.Version11.String(),
		Protocols:   []string{"fira"},
	}
}

// ParseConfig parses a YAML configuration, filling defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("uwbd: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("uwbd: read config: %w", err)
	}
	return ParseConfig(data)
}

func (c *Config) validate() error {
	if c.MaxSessions <= 0 {
		return fmt.Errorf("uwbd: max_sessions must be positive, got %d", c.MaxSessions)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.uwbsVersion(); err != nil {
		return err
	}
	if _, err := c.protocols(); err != nil {
		return err
	}
	return nil
}

// uwbsVersion parses the configured subsystem version.
func (c *Config) uwbsVersion() (fira.ProtocolVersion, error) {
	var major, minor uint8
	if _, err := fmt.Sscanf(c.UwbsVersion, "%d.%d", &major, &minor); err != nil {
		return fira.ProtocolVersion{}, fmt.Errorf("uwbd: bad uwbs_version %q: %w", c.UwbsVersion, err)
	}
	return fira.ProtocolVersion{Major: major, Minor: minor}, nil
}

// protocols parses the configured protocol names.
func (c *Config) protocols() ([]params.Protocol, error) {
	out := make([]params.Protocol, 0, len(c.Protocols))
	for _, name := range c.Protocols {
		var p params.Protocol
		switch name {
		case "fira":
			p = params.ProtocolFira
		case "ccc":
			p = params.ProtocolCcc
		case "radar":
			p = params.ProtocolRadar
		default:
			return nil, fmt.Errorf("uwbd: unknown protocol %q", name)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = append(out, params.ProtocolFira)
	}
	return out, nil
}

// parseLogLevel maps the config string to a pion log level.
func parseLogLevel(level string) (logging.LogLevel, error) {
	switch level {
	case "trace":
		return logging.LogLevelTrace, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "", "info":
		return logging.LogLevelInfo, nil
	case "warn":
		return logging.LogLevelWarn, nil
	case "error":
		return logging.LogLevelError, nil
	case "disabled":
		return logging.LogLevelDisabled, nil
	default:
		return 0, fmt.Errorf("uwbd: unknown log_level %q", level)
	}
}

// loggerFactory builds the daemon-wide logger factory.
func (c *Config) loggerFactory() (logging.LoggerFactory, error) {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	factory := logging.NewDefaultLoggerFactory()
	factory.DefaultLogLevel = level
	return factory, nil
}
