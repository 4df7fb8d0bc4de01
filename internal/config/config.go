package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Iron-Ham/parsort/internal/dispatch"
	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/resource"
	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/spf13/viper"
)

// AppName names the config directory and the environment prefix.
const AppName = "parsort"

// Config represents the complete parsort configuration
type Config struct {
	Sort      SortConfig      `mapstructure:"sort"`
	Heartbeat HeartbeatConfig `mapstructure:"heartbeat"`
	Runtime   RuntimeConfig   `mapstructure:"runtime"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Render    RenderConfig    `mapstructure:"render"`
}

// SortConfig controls the shape and pace of a run
type SortConfig struct {
	// Levels is the height of the merge tree (1-10, default: 3)
	Levels int `mapstructure:"levels"`
	// Workers is the size of the worker pool (1-512, default: 4)
	Workers int `mapstructure:"workers"`
	// Delay is the artificial pause per sort step (default: 100ms)
	Delay time.Duration `mapstructure:"delay"`
	// QueueCapacity bounds the distribution channel (default: 10)
	QueueCapacity int `mapstructure:"queue_capacity"`
}

// HeartbeatConfig controls the status protocol
type HeartbeatConfig struct {
	// Interval between two samples of one worker (default: 1s)
	Interval time.Duration `mapstructure:"interval"`
}

// RuntimeConfig controls where named resources live
type RuntimeConfig struct {
	// Dir holds the resource lock files. Empty uses the system temp dir.
	Dir string `mapstructure:"dir"`
	// Name prefixes every resource file (default: "parsort")
	Name string `mapstructure:"name"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir receives debug.log. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// RenderConfig controls the display
type RenderConfig struct {
	// TUI selects the interactive viewer instead of plain frames
	TUI bool `mapstructure:"tui"`
	// Width of the plot in columns. Zero uses the terminal width.
	Width int `mapstructure:"width"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sort: SortConfig{
			Levels:        3,
			Workers:       4,
			Delay:         100 * time.Millisecond,
			QueueCapacity: dispatch.DefaultCapacity,
		},
		Heartbeat: HeartbeatConfig{
			Interval: heartbeat.DefaultInterval,
		},
		Runtime: RuntimeConfig{
			Dir:  "",
			Name: resource.DefaultName,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Render: RenderConfig{
			TUI:   false,
			Width: 0,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values with v
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	// Sort defaults
	v.SetDefault("sort.levels", defaults.Sort.Levels)
	v.SetDefault("sort.workers", defaults.Sort.Workers)
	v.SetDefault("sort.delay", defaults.Sort.Delay)
	v.SetDefault("sort.queue_capacity", defaults.Sort.QueueCapacity)

	// Heartbeat defaults
	v.SetDefault("heartbeat.interval", defaults.Heartbeat.Interval)

	// Runtime defaults
	v.SetDefault("runtime.dir", defaults.Runtime.Dir)
	v.SetDefault("runtime.name", defaults.Runtime.Name)

	// Logging defaults
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)

	// Render defaults
	v.SetDefault("render.tui", defaults.Render.TUI)
	v.SetDefault("render.width", defaults.Render.Width)
}

// Load reads the configuration from viper into a Config struct, clamps the
// pool shape and validates it. Clamp warnings are returned alongside the
// config.
func Load() (*Config, []string, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load over an explicit viper instance.
func LoadFrom(v *viper.Viper) (*Config, []string, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}

	warnings := cfg.Clamp()
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, warnings, ValidationErrors(errs)
	}

	return &cfg, warnings, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	// Fall back to ~/.config/parsort
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Limits of the pool shape, mirrored from the task table.
const (
	MaxLevels  = tasktable.MaxLevels
	MaxWorkers = tasktable.MaxWorkers
)
