// Package config holds the settings of a conversion run, loaded from YAML
// and overridden by command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/grid"
	"github.com/robert-malhotra/segy2netcdf/internal/segy"
)

// Config holds all conversion settings.
type Config struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`

	// Grid description
	SamplesDimName string      `yaml:"samples_dim_name"`
	Dims           []grid.Axis `yaml:"dims"`

	// Storage
	Compress         bool `yaml:"compress"`
	CompressionLevel int  `yaml:"compression_level"`
	Shuffle          bool `yaml:"shuffle"` // byte shuffle ahead of deflate

	// Header fields copied into trace header variables. Empty means every
	// known field.
	Fields       []string `yaml:"fields"`
	StrictFields bool     `yaml:"strict_fields"`

	MetricsFile string `yaml:"metrics_file"`
	Endian      string `yaml:"endian"` // auto, big, little

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the command line logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SamplesDimName:   grid.DefaultSampleName,
		CompressionLevel: filter.DefaultLevel,
		Shuffle:          true,
		Endian:           "auto",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SEGY2NETCDF_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("SEGY2NETCDF_ENDIAN"); v != "" {
		c.Endian = v
	}
}

// Validate checks the settings that do not depend on the source file. The
// grid itself is validated against the trace count once the file is open.
func (c *Config) Validate() error {
	var problems []string
	if c.Source == "" {
		problems = append(problems, "source path is required")
	}
	if c.Target == "" {
		problems = append(problems, "target path is required")
	}
	if c.Source != "" && c.Source == c.Target {
		problems = append(problems, "source and target are the same file")
	}
	for i, d := range c.Dims {
		if strings.TrimSpace(d.Name) == "" {
			problems = append(problems, fmt.Sprintf("dimension %d has no name", i))
		}
	}
	if c.CompressionLevel < 1 || c.CompressionLevel > 9 {
		problems = append(problems, fmt.Sprintf("compression level %d not in 1..9", c.CompressionLevel))
	}
	if _, err := segy.ParseEndian(c.Endian); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}
	if len(problems) > 0 {
		return cerrors.New(cerrors.KindConfiguration, "validate config", "%s", strings.Join(problems, "; "))
	}
	return nil
}

// SampleName returns the sample axis name, falling back to the default.
func (c *Config) SampleName() string {
	if c.SamplesDimName == "" {
		return grid.DefaultSampleName
	}
	return c.SamplesDimName
}

// ParseDim parses a NAME=LENGTH dimension argument.
func ParseDim(s string) (grid.Axis, error) {
	name, length, ok := strings.Cut(s, "=")
	if !ok {
		return grid.Axis{}, cerrors.New(cerrors.KindConfiguration, "parse dimension",
			"%q is not NAME=LENGTH", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(length))
	if err != nil {
		return grid.Axis{}, cerrors.New(cerrors.KindConfiguration, "parse dimension",
			"%q: length %q is not an integer", s, length)
	}
	return grid.Axis{Name: strings.TrimSpace(name), Length: n}, nil
}
