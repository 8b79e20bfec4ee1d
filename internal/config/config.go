package config

import (
	"fmt"
	"net/url"
	"regexp"
	"time"
)

// Default configuration values.
// These are tuned for unattended corpus collection from a single news
// site: small enough that one run finishes in minutes, large enough that
// each run adds a useful slice of text.
const (
	// DefaultMaxPages is the saved-page budget after which a crawl stops.
	// The budget counts pages that produced a corpus artifact, not pages
	// merely fetched, so navigation pages and non-Nepali content never
	// eat into it. Users can override this via the --max-pages flag.
	DefaultMaxPages = 150

	// DefaultMaxDepth is the maximum link distance from the target page.
	// Pages at this depth are still fetched and saved; their links are no
	// longer followed. News archives rarely bury articles more than a few
	// hops from the front page, so 10 is generous.
	DefaultMaxDepth = 10

	// DefaultSaveInterval is the number of saved pages between periodic
	// checkpoints. 100 keeps checkpoint I/O negligible while bounding how
	// much work a hard kill can lose; a graceful stop writes a final
	// checkpoint regardless.
	DefaultSaveInterval = 100

	// DefaultTimeout is the per-request HTTP timeout. News sites on
	// commodity hosting occasionally stall; 10 seconds abandons such
	// pages without stalling the whole crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultDelay is the pause between consecutive page fetches.
	// Zero preserves the historical full-speed behavior; set --delay to
	// be polite to small origins.
	DefaultDelay time.Duration = 0

	// DefaultStateFile is where crawl state is checkpointed when
	// --state-file is not given. A relative name keeps the state next to
	// wherever the crawl was started, which is also where it will most
	// likely be resumed.
	DefaultStateFile = "nepcrawl_state.json"

	// AppName is the application name used for user-facing output and
	// data directory paths.
	AppName = "nepcrawl"
)

// Config holds all configuration options for a crawl run.
// It is populated from defaults, then an optional YAML file, then CLI
// flags, and passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit. If the configuration grows significantly, consider refactoring
// into sub-structs.
type Config struct {
	// Target is the absolute URL of the site to crawl.
	// The crawl never leaves the target's host.
	Target string

	// Patterns are regular expressions a discovered URL must match (any
	// one of them) to enter the frontier. Empty means every same-host
	// URL qualifies. Typical use is scoping a news site to recent years,
	// e.g. `https://www\.nepalpress\.com/(2023|2024)`.
	Patterns []string

	// Resume continues from the state file instead of starting fresh.
	// A missing or unreadable state file downgrades to a fresh start
	// with a warning rather than an error, so resume is always safe to
	// pass.
	Resume bool

	// StateFile is the checkpoint path. Each save replaces the file
	// atomically, so a crash never leaves half-written state behind.
	StateFile string

	// OutputDir is the corpus directory for page_N.txt artifacts.
	// Empty means derive a directory name from the target host.
	OutputDir string

	// MaxPages is the saved-page budget. Resumed runs inherit previously
	// saved pages against the same budget.
	MaxPages int

	// MaxDepth is the maximum link distance from the target page.
	MaxDepth int

	// SaveInterval is the number of saved pages between periodic
	// checkpoints.
	SaveInterval int

	// Timeout is the per-request HTTP timeout. This applies to
	// individual page fetches, not the overall crawl duration.
	Timeout time.Duration

	// Delay is the pause inserted between consecutive fetches.
	// This is a politeness setting; zero disables pacing.
	Delay time.Duration

	// UserAgent overrides the User-Agent header sent with HTTP requests.
	// Empty means the fetch client's default, which identifies the
	// crawler and links back to the project.
	UserAgent string

	// ConfigFilePath is the configuration file that was actually loaded,
	// if any. Recorded for diagnostics only.
	ConfigFilePath string

	// JournalDir is the directory holding the SQLite crawl journal.
	// Empty means the user's data directory.
	JournalDir string

	// NoJournal disables the crawl journal entirely. The crawl itself is
	// unaffected; only the per-URL audit trail is skipped.
	NoJournal bool

	// NoProgress disables the live terminal progress bar. Useful when
	// output is redirected to a file or a CI log.
	NoProgress bool

	// ReportFile is the path for an optional Markdown crawl report
	// written after the run. Empty means no report file.
	ReportFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output from human-readable text to JSON.
	LogJSON bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (budget, depth,
// timeout). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		StateFile:    DefaultStateFile,
		MaxPages:     DefaultMaxPages,
		MaxDepth:     DefaultMaxDepth,
		SaveInterval: DefaultSaveInterval,
		Timeout:      DefaultTimeout,
		Delay:        DefaultDelay,
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after flag and file merging, before any network
// request is made.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrTargetRequired
	}

	// Everything downstream assumes an absolute http(s) target.
	u, err := url.Parse(c.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, c.Target)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, c.Target)
	}

	for _, p := range c.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p, err)
		}
	}

	// Timeout must be positive; zero would fail every request immediately.
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}

	if c.SaveInterval <= 0 {
		return ErrInvalidSaveInterval
	}

	// Delay must be non-negative; zero means full speed.
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.StateFile == "" {
		return ErrStateFileRequired
	}

	return nil
}
