package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nepcorpus/nepcrawl/internal/checkpoint"
	"github.com/nepcorpus/nepcrawl/internal/config"
	"github.com/nepcorpus/nepcrawl/internal/corpus"
	"github.com/nepcorpus/nepcrawl/internal/crawler"
	"github.com/nepcorpus/nepcrawl/internal/extract"
	"github.com/nepcorpus/nepcrawl/internal/fetch"
	"github.com/nepcorpus/nepcrawl/internal/journal"
	"github.com/nepcorpus/nepcrawl/internal/log"
	"github.com/nepcorpus/nepcrawl/internal/model"
	"github.com/nepcorpus/nepcrawl/internal/progress"
	"github.com/nepcorpus/nepcrawl/internal/report"
	"github.com/nepcorpus/nepcrawl/internal/shutdown"
	"github.com/spf13/cobra"
)

// recentPageLimit caps how many journal rows the crawl report lists.
const recentPageLimit = 10

// NewRootCmd creates the root command for nepcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nepcrawl [target-url]",
		Short: "Breadth-first Nepali corpus crawler for a single news site",
		Long: `nepcrawl crawls a single news site breadth-first and extracts Nepali
article text into a plain-text corpus.

Starting from the links on the target page, it fetches pages on the target
host, keeps paragraphs the language detector identifies as Nepali, strips
them down to Devanagari, and saves each accepted page as page_N.txt. Crawl
state (queue, visited set, counters) is checkpointed to a JSON file so an
interrupted crawl can be resumed where it left off.

Examples:
  # Crawl a news site with the default limits
  nepcrawl https://www.nepalpress.com

  # Restrict the crawl to recent articles and raise the page budget
  nepcrawl --pattern 'nepalpress\.com/202[45]' --max-pages 500 https://www.nepalpress.com

  # Resume an interrupted crawl
  nepcrawl --resume https://www.nepalpress.com

  # Be polite to a small origin
  nepcrawl --delay 500ms --timeout 15s https://www.nepalpress.com

Configuration file (.nepcrawl.yaml) example:
  target: https://www.nepalpress.com
  patterns:
    - nepalpress\.com/(2023|2024)
  maxPages: 500
  delay: 500ms`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRootCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate(fmt.Sprintf(
		"nepcrawl version {{.Version}}\n  commit: %s\n  built:  %s\n",
		getCommit(), getDate(),
	))

	// Crawl scope flags
	cmd.Flags().StringArray("pattern", nil,
		"Regular expression discovered URLs must match (repeatable; empty matches the whole host)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Saved-page budget after which the crawl stops")
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Maximum link distance from the target page")

	// Checkpoint and resume flags
	cmd.Flags().Bool("resume", false,
		"Continue from the state file instead of starting fresh")
	cmd.Flags().String("state-file", config.DefaultStateFile,
		"Path of the JSON crawl state checkpoint")
	cmd.Flags().Int("save-interval", config.DefaultSaveInterval,
		"Number of saved pages between periodic checkpoints")

	// Fetch flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page request")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Politeness pause between consecutive requests (0 disables)")
	cmd.Flags().String("user-agent", "",
		"Override the User-Agent header sent with requests")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Corpus directory for page_N.txt artifacts (default: derived from the target host)")
	cmd.Flags().String("report", "",
		"Write a Markdown crawl report to the given path after the run")

	// Journal flags
	cmd.Flags().String("journal-dir", "",
		"Directory holding the SQLite crawl journal (default: user data directory)")
	cmd.Flags().Bool("no-journal", false,
		"Disable the crawl journal")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nepcrawl.yaml in current or home directory)")

	// Terminal output flags
	cmd.Flags().Bool("no-progress", false,
		"Disable the live progress bar")
	cmd.Flags().BoolP("verbose", "v", false,
		"Enable verbose logging")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON instead of text")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes one crawl run.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	if cfg.ConfigFilePath != "" {
		logger.Debug("configuration file loaded", "path", cfg.ConfigFilePath)
	}

	// The first interrupt cancels this context; the driver finishes the
	// page in flight, checkpoints, and returns.
	ctx := shutdown.NewController().Watch(context.Background())

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from the config file and command flags.
// Precedence is flags > file > defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently fall back to defaults.
	explicitConfigPath := configFlag != ""
	configPath := config.FindConfigFile(configFlag)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
		cfg.ConfigFilePath = configPath
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", configFlag)
	}

	// Flags override file values only when actually set on the command
	// line; an unchanged flag would otherwise undo the file with its
	// default value.
	if cmd.Flags().Changed("pattern") {
		cfg.Patterns, err = cmd.Flags().GetStringArray("pattern")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("state-file") {
		cfg.StateFile, err = cmd.Flags().GetString("state-file")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("save-interval") {
		cfg.SaveInterval, err = cmd.Flags().GetInt("save-interval")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("delay") {
		cfg.Delay, err = cmd.Flags().GetDuration("delay")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("user-agent") {
		cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("output") {
		cfg.OutputDir, err = cmd.Flags().GetString("output")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("journal-dir") {
		cfg.JournalDir, err = cmd.Flags().GetString("journal-dir")
		if err != nil {
			return nil, err
		}
	}

	// These have no config file counterpart and are read as-is.
	cfg.Resume, err = cmd.Flags().GetBool("resume")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.NoJournal, err = cmd.Flags().GetBool("no-journal")
	if err != nil {
		return nil, err
	}

	cfg.NoProgress, err = cmd.Flags().GetBool("no-progress")
	if err != nil {
		return nil, err
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	cfg.LogJSON, err = cmd.Flags().GetBool("log-json")
	if err != nil {
		return nil, err
	}

	// The positional argument wins over a target from the file. Repair a
	// mangled scheme ("https:/site.com") from either source before
	// validation.
	if len(args) > 0 {
		cfg.Target = args[0]
	}
	cfg.Target = crawler.NormalizeURL(cfg.Target)

	return cfg, nil
}

// setupLogger creates a structured logger based on the config.
// Logs go to stderr so they never mix with the crawl summary on stdout.
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return log.NewJSON(os.Stderr, cfg.Verbose)
	}
	return log.New(os.Stderr, cfg.Verbose)
}

// runCrawl wires the crawl engine to its collaborators and runs it to
// completion. Once the crawl starts, it never fails: every exit path
// checkpoints, prints the final summary, and returns nil.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	scope, err := crawler.NewScope(cfg.Target, cfg.Patterns)
	if err != nil {
		return fmt.Errorf("invalid crawl scope: %w", err)
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = corpus.DefaultDir(scope.Host())
	}
	artifacts, err := corpus.NewWriter(outputDir)
	if err != nil {
		return fmt.Errorf("failed to open corpus directory: %w", err)
	}

	logger.Info("starting crawl",
		"target", scope.Target(),
		"output", artifacts.Dir(),
		"max_pages", cfg.MaxPages,
		"max_depth", cfg.MaxDepth,
	)

	store := checkpoint.NewStore(cfg.StateFile)

	opts := []crawler.Option{
		crawler.WithLogger(logger),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithSaveInterval(cfg.SaveInterval),
		crawler.WithDelay(cfg.Delay),
		crawler.WithCheckpointStore(store),
	}

	// A failed or missing checkpoint downgrades resume to a fresh start;
	// it never aborts the run.
	resumed := false
	initialSaved := 0
	if cfg.Resume {
		snap, err := store.Load()
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Failed to load state from %s: %v. Starting fresh.\n", store.Path(), err)
		case snap == nil:
			fmt.Fprintf(os.Stderr, "No saved state at %s. Starting fresh.\n", store.Path())
		default:
			if snap.Target != "" && snap.Target != scope.Target() {
				logger.Warn("state file was saved for a different target",
					"state_target", snap.Target,
					"target", scope.Target(),
				)
			}
			opts = append(opts, crawler.WithState(crawler.RestoreState(snap)))
			resumed = true
			initialSaved = snap.PagesSaved
			fmt.Printf("State loaded from %s\n", store.Path())
		}
	}

	var jnl *journal.Journal
	if !cfg.NoJournal {
		journalDir := cfg.JournalDir
		if journalDir == "" {
			journalDir = journal.DefaultDir()
		}
		j, err := journal.Open(journalDir, scope.Target(), journal.DefaultOptions())
		if err != nil {
			// The journal is an audit trail, not a crawl dependency.
			logger.Warn("crawl journal unavailable, continuing without it", "error", err)
		} else {
			defer j.Close()
			jnl = j
			opts = append(opts, crawler.WithJournal(jnl))
		}
	}

	var bar *progress.Bar
	if !cfg.NoProgress {
		bar = progress.New(os.Stderr, cfg.MaxPages, initialSaved)
		opts = append(opts, crawler.WithProgress(bar))
	}

	fetchOpts := make([]fetch.Option, 0, 1)
	if cfg.UserAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.UserAgent))
	}
	fetcher := fetch.New(&http.Client{Timeout: cfg.Timeout}, fetchOpts...)

	driver := crawler.NewDriver(scope, fetcher, artifacts,
		extract.NewTextExtractor(), extract.NewLinkExtractor(), opts...)

	if !resumed {
		fmt.Printf("Getting initial links from: %s\n", scope.Target())
	}

	result := driver.Run(ctx)

	if bar != nil {
		bar.Close()
	}

	summary := model.CrawlSummary{
		Target:       scope.Target(),
		StopReason:   string(result.Reason),
		PagesSaved:   result.PagesSaved,
		MaxPages:     cfg.MaxPages,
		PagesCrawled: result.PagesCrawled,
		FrontierLen:  result.FrontierLen,
		VisitedCount: result.VisitedCount,
		Elapsed:      result.Elapsed,
		OutputDir:    artifacts.Dir(),
		StateFile:    store.Path(),
	}

	// Post-run bookkeeping still runs when a stop request cancelled ctx.
	postCtx := context.WithoutCancel(ctx)

	data := &report.Data{Summary: summary}
	if jnl != nil {
		if err := jnl.RecordSession(postCtx, summary); err != nil {
			logger.Warn("failed to record crawl session", "error", err)
		}
		recent, err := jnl.RecentPages(postCtx, recentPageLimit)
		if err != nil {
			logger.Warn("failed to load recent pages", "error", err)
		} else {
			data.Recent = recent
		}
	}

	if _, err := report.NewTextWriter(os.Stdout).Write(data); err != nil {
		logger.Error("failed to print crawl summary", "error", err)
	}

	if cfg.ReportFile != "" {
		if err := writeReportFile(cfg.ReportFile, data); err != nil {
			logger.Error("failed to write crawl report", "path", cfg.ReportFile, "error", err)
		}
	}

	return nil
}

// writeReportFile renders the Markdown crawl report to path, creating
// parent directories as needed.
func writeReportFile(path string, data *report.Data) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	_, err = report.NewMarkdownWriter(f).Write(data)
	return err
}
