// Package config loads the optional typedtext.yaml file.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/typedtext/pkg/errors"
	"github.com/go-drift/typedtext/pkg/typedtext"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "typedtext.yaml"

// SchemaVersion is the configuration schema this build understands. Files
// must declare the same major version.
const SchemaVersion = "v1.0.0"

// DefaultHold is how long a script line stays on screen when it does not
// say otherwise.
const DefaultHold = time.Second

// Config represents typedtext.yaml.
type Config struct {
	Version    string           `yaml:"version,omitempty"`
	Transition TransitionConfig `yaml:"transition"`
	Script     []Line           `yaml:"script,omitempty"`
}

// TransitionConfig contains animation settings.
type TransitionConfig struct {
	// Duration is written as a Go duration string ("750ms", "-1s").
	Duration     *time.Duration `yaml:"duration,omitempty"`
	PerCharacter bool           `yaml:"per_character,omitempty"`
}

// Line is one entry of a playback script.
type Line struct {
	Text string        `yaml:"text"`
	Hold time.Duration `yaml:"hold,omitempty"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError(path, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err))
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, configError(path, err)
	}
	return cfg, nil
}

// LoadOptional reads typedtext.yaml from dir if present. A missing file
// yields an empty configuration.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the schema version.
func (c *Config) Validate() error {
	v := strings.TrimSpace(c.Version)
	if v == "" {
		return nil
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version must be a semantic version like %s (got %q)", SchemaVersion, v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported config version %s (this build reads %s.x)", v, semver.Major(SchemaVersion))
	}
	return nil
}

// Settings resolves the transition settings, applying defaults for
// anything the file leaves out.
func (c *Config) Settings() typedtext.Settings {
	s := typedtext.DefaultSettings()
	if c.Transition.Duration != nil {
		s.AnimationDuration = *c.Transition.Duration
	}
	s.AnimatePerCharacter = c.Transition.PerCharacter
	return s
}

// Lines returns the script with holds resolved. Lines with a zero hold
// use DefaultHold.
func (c *Config) Lines() []Line {
	lines := make([]Line, len(c.Script))
	for i, l := range c.Script {
		if l.Hold <= 0 {
			l.Hold = DefaultHold
		}
		lines[i] = l
	}
	return lines
}

func configError(path string, err error) error {
	return &errors.Error{
		Op:   "config.Load",
		Kind: errors.KindConfig,
		Path: path,
		Err:  err,
	}
}
