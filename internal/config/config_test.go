package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default MaxPages is 150", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 150 {
			t.Errorf("expected MaxPages to be 150, got %d", cfg.MaxPages)
		}
	})

	t.Run("default MaxDepth is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxDepth != 10 {
			t.Errorf("expected MaxDepth to be 10, got %d", cfg.MaxDepth)
		}
	})

	t.Run("default SaveInterval is 100", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveInterval != 100 {
			t.Errorf("expected SaveInterval to be 100, got %d", cfg.SaveInterval)
		}
	})

	t.Run("default Timeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected Timeout to be 10s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Delay is zero", func(t *testing.T) {
		t.Parallel()
		if cfg.Delay != 0 {
			t.Errorf("expected Delay to be 0, got %v", cfg.Delay)
		}
	})

	t.Run("default StateFile is nepcrawl_state.json", func(t *testing.T) {
		t.Parallel()
		if cfg.StateFile != "nepcrawl_state.json" {
			t.Errorf("expected StateFile to be 'nepcrawl_state.json', got %q", cfg.StateFile)
		}
	})

	t.Run("default OutputDir is empty for host derivation", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "" {
			t.Errorf("expected empty OutputDir, got %q", cfg.OutputDir)
		}
	})

	t.Run("default Resume is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Resume {
			t.Error("expected Resume to be false")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Target = "https://www.nepalpress.com"
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("patterns are valid regular expressions", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Patterns = []string{`https://www\.nepalpress\.com/(2023|2024)`}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty target returns ErrTargetRequired", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Target = ""

		err := cfg.Validate()
		if !errors.Is(err, ErrTargetRequired) {
			t.Errorf("expected ErrTargetRequired, got %v", err)
		}
	})

	t.Run("relative target returns ErrInvalidTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Target = "/news/2024"

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("expected ErrInvalidTarget, got %v", err)
		}
	})

	t.Run("schemeless target returns ErrInvalidTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Target = "www.nepalpress.com"

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("expected ErrInvalidTarget, got %v", err)
		}
	})

	t.Run("non-http scheme returns ErrInvalidTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Target = "ftp://www.nepalpress.com"

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("expected ErrInvalidTarget, got %v", err)
		}
	})

	t.Run("broken pattern returns ErrInvalidPattern", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Patterns = []string{`https://valid\.example`, `(unclosed`}

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = -1 * time.Second

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero max pages returns ErrInvalidMaxPages", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxPages = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("negative max depth returns ErrInvalidMaxDepth", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDepth = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidMaxDepth) {
			t.Errorf("expected ErrInvalidMaxDepth, got %v", err)
		}
	})

	t.Run("zero save interval returns ErrInvalidSaveInterval", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SaveInterval = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidSaveInterval) {
			t.Errorf("expected ErrInvalidSaveInterval, got %v", err)
		}
	})

	t.Run("negative delay returns ErrInvalidDelay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = -1 * time.Second

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("expected ErrInvalidDelay, got %v", err)
		}
	})

	t.Run("zero delay is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty state file returns ErrStateFileRequired", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.StateFile = ""

		err := cfg.Validate()
		if !errors.Is(err, ErrStateFileRequired) {
			t.Errorf("expected ErrStateFileRequired, got %v", err)
		}
	})
}

// TestFileApply tests merging a configuration file onto defaults.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		file := &File{
			Target:    "https://www.nepalpress.com",
			Patterns:  []string{`https://www\.nepalpress\.com/(2023|2024)`},
			Output:    "corpus",
			MaxPages:  50,
			Timeout:   Duration(30 * time.Second),
			Delay:     Duration(500 * time.Millisecond),
			UserAgent: "custom-agent/1.0",
		}
		file.Apply(cfg)

		if cfg.Target != "https://www.nepalpress.com" {
			t.Errorf("expected file target, got %q", cfg.Target)
		}
		if len(cfg.Patterns) != 1 {
			t.Errorf("expected 1 pattern, got %d", len(cfg.Patterns))
		}
		if cfg.OutputDir != "corpus" {
			t.Errorf("expected OutputDir 'corpus', got %q", cfg.OutputDir)
		}
		if cfg.MaxPages != 50 {
			t.Errorf("expected MaxPages 50, got %d", cfg.MaxPages)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout 30s, got %v", cfg.Timeout)
		}
		if cfg.Delay != 500*time.Millisecond {
			t.Errorf("expected Delay 500ms, got %v", cfg.Delay)
		}
		if cfg.UserAgent != "custom-agent/1.0" {
			t.Errorf("expected file user agent, got %q", cfg.UserAgent)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		file := &File{Target: "https://www.nepalpress.com"}
		file.Apply(cfg)

		if cfg.MaxPages != DefaultMaxPages {
			t.Errorf("expected default MaxPages, got %d", cfg.MaxPages)
		}
		if cfg.MaxDepth != DefaultMaxDepth {
			t.Errorf("expected default MaxDepth, got %d", cfg.MaxDepth)
		}
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("expected default Timeout, got %v", cfg.Timeout)
		}
		if cfg.StateFile != DefaultStateFile {
			t.Errorf("expected default StateFile, got %q", cfg.StateFile)
		}
	})

	t.Run("empty file applies nothing", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		want := *NewConfig()
		(&File{}).Apply(cfg)

		if cfg.StateFile != want.StateFile || cfg.MaxPages != want.MaxPages ||
			cfg.Timeout != want.Timeout || cfg.Target != want.Target {
			t.Errorf("empty file changed defaults: %+v", cfg)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.nepcrawl.yaml")
		if err == nil {
			t.Fatal("expected error for non-existent file")
		}
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".nepcrawl.yaml")

		content := `target: https://www.nepalpress.com
patterns:
  - https://www\.nepalpress\.com/(2023|2024)
output: nepali_corpus
stateFile: crawl.json
maxPages: 300
maxDepth: 5
saveInterval: 25
timeout: 30s
delay: 500ms
userAgent: "research-bot/1.0"
journalDir: /tmp/journal
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Target != "https://www.nepalpress.com" {
			t.Errorf("expected target, got %q", cfg.Target)
		}
		if len(cfg.Patterns) != 1 || cfg.Patterns[0] != `https://www\.nepalpress\.com/(2023|2024)` {
			t.Errorf("expected year pattern, got %v", cfg.Patterns)
		}
		if cfg.Output != "nepali_corpus" {
			t.Errorf("expected output dir, got %q", cfg.Output)
		}
		if cfg.StateFile != "crawl.json" {
			t.Errorf("expected state file, got %q", cfg.StateFile)
		}
		if cfg.MaxPages != 300 {
			t.Errorf("expected maxPages 300, got %d", cfg.MaxPages)
		}
		if cfg.MaxDepth != 5 {
			t.Errorf("expected maxDepth 5, got %d", cfg.MaxDepth)
		}
		if cfg.SaveInterval != 25 {
			t.Errorf("expected saveInterval 25, got %d", cfg.SaveInterval)
		}
		if time.Duration(cfg.Timeout) != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", time.Duration(cfg.Timeout))
		}
		if time.Duration(cfg.Delay) != 500*time.Millisecond {
			t.Errorf("expected delay 500ms, got %v", time.Duration(cfg.Delay))
		}
		if cfg.UserAgent != "research-bot/1.0" {
			t.Errorf("expected user agent, got %q", cfg.UserAgent)
		}
		if cfg.JournalDir != "/tmp/journal" {
			t.Errorf("expected journal dir, got %q", cfg.JournalDir)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".nepcrawl.yaml")

		content := `invalid: yaml: content: [}`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for unparseable duration", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".nepcrawl.yaml")

		content := `timeout: banana`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for unparseable duration")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.yaml")

		if err := os.WriteFile(configPath, []byte("maxPages: 10"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		result := FindConfigFile(configPath)
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		result := FindConfigFile("/nonexistent/path/config.yaml")
		if result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds config in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFile)

		if err := os.WriteFile(configPath, []byte("maxPages: 10"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(tmpDir)

		result := FindConfigFile("")
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty when no config found", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())

		result := FindConfigFile("")
		if result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}
