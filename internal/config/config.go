// Package config loads SpritePack settings from defaults, an optional YAML
// file and SPRITEPACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/piwi3910/SpritePack/internal/engine"
	"github.com/piwi3910/SpritePack/internal/model"
)

// Sentinel validation errors.
var (
	ErrInvalidMaxSide      = errors.New("pack.max_side must be positive")
	ErrInvalidDiscardStep  = errors.New("pack.discard_step must not be negative")
	ErrInvalidNodeCapacity = errors.New("pack.node_capacity must not be negative")
	ErrNoHeuristics        = errors.New("pack.heuristics must not be empty")
	ErrInvalidHeuristic    = errors.New("unknown heuristic")
	ErrInvalidLogLevel     = errors.New("invalid logging level")
	ErrInvalidLogFormat    = errors.New("invalid logging format")
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SPRITEPACK"

// Config holds all configuration for a SpritePack run.
type Config struct {
	Pack    PackConfig    `mapstructure:"pack"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// PackConfig mirrors model.PackSettings.
type PackConfig struct {
	Heuristics   []string `mapstructure:"heuristics"`
	MaxSide      int      `mapstructure:"max_side"`
	DiscardStep  int      `mapstructure:"discard_step"`
	NodeCapacity int      `mapstructure:"node_capacity"`
	AllowFlip    bool     `mapstructure:"allow_flip"`
	Parallel     bool     `mapstructure:"parallel"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics output configuration.
type MetricsConfig struct {
	// Textfile is written after each pack when set.
	Textfile string `mapstructure:"textfile"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty configPath searches the working directory and ~/.spritepack for
// spritepack.yaml; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("spritepack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".spritepack"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	d := model.DefaultSettings()
	return &Config{
		Pack: PackConfig{
			Heuristics:  heuristicStrings(d.Heuristics),
			MaxSide:     d.MaxSide,
			DiscardStep: d.DiscardStep,
			AllowFlip:   d.AllowFlip,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("pack.max_side", d.Pack.MaxSide)
	v.SetDefault("pack.allow_flip", d.Pack.AllowFlip)
	v.SetDefault("pack.discard_step", d.Pack.DiscardStep)
	v.SetDefault("pack.heuristics", d.Pack.Heuristics)
	v.SetDefault("pack.node_capacity", 0)
	v.SetDefault("pack.parallel", false)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("metrics.textfile", "")
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	p := c.Pack
	if p.MaxSide <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSide, p.MaxSide)
	}
	if p.DiscardStep < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDiscardStep, p.DiscardStep)
	}
	if p.NodeCapacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNodeCapacity, p.NodeCapacity)
	}
	if len(p.Heuristics) == 0 {
		return ErrNoHeuristics
	}
	known := engine.HeuristicNames()
	for _, h := range p.Heuristics {
		if !slices.Contains(known, h) {
			return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidHeuristic, h, strings.Join(known, ", "))
		}
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// PackSettings converts the pack section into engine settings.
func (c *Config) PackSettings() model.PackSettings {
	hs := make([]model.Heuristic, len(c.Pack.Heuristics))
	for i, h := range c.Pack.Heuristics {
		hs[i] = model.Heuristic(h)
	}
	return model.PackSettings{
		MaxSide:      c.Pack.MaxSide,
		AllowFlip:    c.Pack.AllowFlip,
		DiscardStep:  c.Pack.DiscardStep,
		Heuristics:   hs,
		NodeCapacity: c.Pack.NodeCapacity,
		Parallel:     c.Pack.Parallel,
	}
}

func heuristicStrings(hs []model.Heuristic) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = string(h)
	}
	return out
}
