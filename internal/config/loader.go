package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".nepcrawl.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Duration is a time.Duration that unmarshals from YAML strings such as
// "10s" or "500ms". Without it yaml.v3 would decode duration fields as
// bare nanosecond integers, which nobody writes by hand.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// File represents the structure of the .nepcrawl.yaml configuration file.
// Every field is optional; absent fields leave the corresponding Config
// value untouched, so a file can pin just the target and patterns while
// everything else keeps its default.
type File struct {
	// Target is the site URL to crawl.
	Target string `yaml:"target,omitempty"`

	// Patterns are regular expressions discovered URLs must match.
	Patterns []string `yaml:"patterns,omitempty"`

	// Output is the corpus directory for extracted text artifacts.
	Output string `yaml:"output,omitempty"`

	// StateFile is the checkpoint path.
	StateFile string `yaml:"stateFile,omitempty"`

	// MaxPages is the saved-page budget per run.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxDepth is the maximum link distance from the target page.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// SaveInterval is the number of saved pages between checkpoints.
	SaveInterval int `yaml:"saveInterval,omitempty"`

	// Timeout is the per-request HTTP timeout, e.g. "10s".
	Timeout Duration `yaml:"timeout,omitempty"`

	// Delay is the politeness pause between fetches, e.g. "500ms".
	Delay Duration `yaml:"delay,omitempty"`

	// UserAgent overrides the HTTP User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// JournalDir is the directory for the SQLite crawl journal.
	JournalDir string `yaml:"journalDir,omitempty"`
}

// Apply copies every set File field onto cfg. Call it after NewConfig
// and before applying CLI flags so the precedence is flags > file >
// defaults.
//
// Design decision: zero values mean "not set" rather than "set to zero".
// That makes `delay: 0s` in a file indistinguishable from an absent key,
// which is acceptable because zero is already the default for every
// field where zero is meaningful.
func (f *File) Apply(cfg *Config) {
	if f.Target != "" {
		cfg.Target = f.Target
	}
	if len(f.Patterns) > 0 {
		cfg.Patterns = f.Patterns
	}
	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.StateFile != "" {
		cfg.StateFile = f.StateFile
	}
	if f.MaxPages != 0 {
		cfg.MaxPages = f.MaxPages
	}
	if f.MaxDepth != 0 {
		cfg.MaxDepth = f.MaxDepth
	}
	if f.SaveInterval != 0 {
		cfg.SaveInterval = f.SaveInterval
	}
	if f.Timeout != 0 {
		cfg.Timeout = time.Duration(f.Timeout)
	}
	if f.Delay != 0 {
		cfg.Delay = time.Duration(f.Delay)
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.JournalDir != "" {
		cfg.JournalDir = f.JournalDir
	}
}

// LoadConfigFile loads crawl configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error appropriately based on whether the config
// file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .nepcrawl.yaml in the current directory
// 3. Look for .nepcrawl.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
