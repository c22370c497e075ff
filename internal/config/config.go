// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for bank-calculators.
type Configuration struct {
	Logging LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig      `mapstructure:"output" yaml:"output"`
	Server  ServerConfig      `mapstructure:"server" yaml:"server"`
	Limits  validation.Limits `mapstructure:"limits" yaml:"limits"`
	Tracing TracingConfig     `mapstructure:"tracing" yaml:"tracing"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Address                string `mapstructure:"address" yaml:"address"`
	MaxRequestSize         string `mapstructure:"maxRequestSize" yaml:"maxRequestSize"` // e.g. 64K, 1M
	ShutdownTimeoutSeconds int    `mapstructure:"shutdownTimeoutSeconds" yaml:"shutdownTimeoutSeconds"`
}

// TracingConfig holds OpenTelemetry settings. Spans are only exported when
// an endpoint is set.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	ServiceName string `mapstructure:"serviceName" yaml:"serviceName"`
	Insecure    bool   `mapstructure:"insecure" yaml:"insecure,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Server: ServerConfig{
			Address:                constants.DefaultServerAddress,
			MaxRequestSize:         "64K",
			ShutdownTimeoutSeconds: constants.DefaultShutdownTimeoutSeconds,
		},
		Limits:  validation.DefaultLimits(),
		Tracing: TracingConfig{ServiceName: constants.DefaultServiceName},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the defaults; environment
// variables prefixed with BANKCALC_ override either.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can override it during
	// Unmarshal.
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.outputFile", d.Logging.OutputFile)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.maxRequestSize", d.Server.MaxRequestSize)
	v.SetDefault("server.shutdownTimeoutSeconds", d.Server.ShutdownTimeoutSeconds)
	v.SetDefault("limits.maxPrincipal", d.Limits.MaxPrincipal)
	v.SetDefault("limits.maxContribution", d.Limits.MaxContribution)
	v.SetDefault("limits.maxRatePercent", d.Limits.MaxRatePercent)
	v.SetDefault("limits.maxInstalments", d.Limits.MaxInstalments)
	v.SetDefault("limits.maxTermMonths", d.Limits.MaxTermMonths)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.serviceName", d.Tracing.ServiceName)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the enumerated settings and limits.
func (c *Configuration) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unsupported level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported format %q", c.Logging.Format))
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if c.Limits.MaxPrincipal < 0 || c.Limits.MaxContribution < 0 || c.Limits.MaxRatePercent < 0 ||
		c.Limits.MaxInstalments < 0 || c.Limits.MaxTermMonths < 0 {
		errs = append(errs, errors.New("limits: values must not be negative"))
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		errs = append(errs, errors.New("server.shutdownTimeoutSeconds: must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// WriteYAML writes the effective configuration as YAML.
func (c *Configuration) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
