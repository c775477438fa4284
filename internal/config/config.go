// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Display modes.
const (
	DisplayAuto  = "auto"  // TUI when stdout is a terminal, plain otherwise.
	DisplayPlain = "plain" // Line-oriented shell.
	DisplayTUI   = "tui"   // Full-screen terminal UI.
)

// LevelOff disables diagnostic logging.
const LevelOff = "off"

// Config holds all addrbook configuration.
type Config struct {
	Shell   Shell   `yaml:"shell"`
	Display Display `yaml:"display"`
	Log     Log     `yaml:"log"`
}

// Shell holds interactive session text.
type Shell struct {
	Prompt   string `yaml:"prompt"`
	Greeting string `yaml:"greeting"`
}

// Display holds front-end selection settings.
type Display struct {
	Mode string `yaml:"mode"` // "auto" | "plain" | "tui"
}

// Log holds diagnostic logging settings.
type Log struct {
	Level string `yaml:"level"` // "off" | "debug" | "info" | "warn" | "error"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Shell: Shell{
			Prompt:   "Enter a command: ",
			Greeting: "Welcome to the assistant bot!",
		},
		Display: Display{
			Mode: DisplayAuto,
		},
		Log: Log{
			Level: LevelOff,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Shell.Prompt == "" {
		return errors.New("config: shell.prompt cannot be empty")
	}
	switch c.Display.Mode {
	case DisplayAuto, DisplayPlain, DisplayTUI:
		// valid
	default:
		return fmt.Errorf("config: display.mode must be \"auto\", \"plain\" or \"tui\", got %q", c.Display.Mode)
	}
	switch c.Log.Level {
	case LevelOff, "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of off, debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRBOOK_PROMPT, ADDRBOOK_DISPLAY, ADDRBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ADDRBOOK_PROMPT"); v != "" {
		c.Shell.Prompt = v
	}
	if v := os.Getenv("ADDRBOOK_DISPLAY"); v != "" {
		c.Display.Mode = v
	}
	if v := os.Getenv("ADDRBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Shell   *rawShell   `yaml:"shell"`
	Display *rawDisplay `yaml:"display"`
	Log     *rawLog     `yaml:"log"`
}

type rawShell struct {
	Prompt   *string `yaml:"prompt"`
	Greeting *string `yaml:"greeting"`
}

type rawDisplay struct {
	Mode *string `yaml:"mode"`
}

type rawLog struct {
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Shell != nil {
		if layer.Shell.Prompt != nil {
			c.Shell.Prompt = *layer.Shell.Prompt
		}
		if layer.Shell.Greeting != nil {
			c.Shell.Greeting = *layer.Shell.Greeting
		}
	}
	if layer.Display != nil && layer.Display.Mode != nil {
		c.Display.Mode = *layer.Display.Mode
	}
	if layer.Log != nil && layer.Log.Level != nil {
		c.Log.Level = *layer.Log.Level
	}
}
