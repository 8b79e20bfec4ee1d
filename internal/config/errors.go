package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Where the offending value helps (the target
// URL, a broken pattern), Validate wraps the sentinel with fmt.Errorf
// and %w so errors.Is still matches.
var (
	// ErrTargetRequired is returned when no target URL is specified.
	// This error occurs when neither a positional argument nor the
	// config file provides the site to crawl.
	ErrTargetRequired = errors.New("no target specified: pass the site URL to crawl or set target in the config file")

	// ErrInvalidTarget is returned when the target is not an absolute
	// http or https URL. Scope checks and link resolution both assume
	// a scheme and a host are present.
	ErrInvalidTarget = errors.New("invalid target: must be an absolute http or https URL")

	// ErrInvalidPattern is returned when a URL pattern does not compile
	// as a regular expression. A broken pattern would silently admit or
	// reject the wrong URLs, so it is rejected up front.
	ErrInvalidPattern = errors.New("invalid URL pattern: must be a valid regular expression")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would stop the crawl before the first page.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidMaxDepth is returned when the depth limit is not positive.
	// The target's own links sit at depth 1, so anything lower crawls nothing.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be positive")

	// ErrInvalidSaveInterval is returned when the checkpoint interval is
	// not positive. Zero would divide the crawl into checkpoints of
	// nothing; disable checkpointing is not an option by design.
	ErrInvalidSaveInterval = errors.New("invalid save interval: must be positive")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// A negative delay is invalid; use 0 for no pause between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrStateFileRequired is returned when the state file path is empty.
	// The crawl always checkpoints, so it always needs somewhere to write.
	ErrStateFileRequired = errors.New("no state file specified: a checkpoint path is required")
)
