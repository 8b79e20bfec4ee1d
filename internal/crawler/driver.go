package crawler

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nepcorpus/nepcrawl/internal/model"
)

// Fetcher retrieves the raw bytes of a page. Implementations enforce
// their own timeout and identify the crawler via the User-Agent header.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// TextExtractor pulls filtered body text out of page HTML.
// ok is false when the page yields no usable text.
type TextExtractor interface {
	ExtractText(html []byte) (text string, ok bool)
}

// LinkExtractor returns the outbound links of a page resolved against
// its base URL.
type LinkExtractor interface {
	ExtractLinks(html []byte, baseURL string) ([]string, error)
}

// ArtifactWriter persists the text of one accepted page and returns the
// artifact name it was stored under.
type ArtifactWriter interface {
	Save(text string) (string, error)
}

// CheckpointStore persists crawl snapshots. The driver only writes;
// loading happens before the driver is built.
type CheckpointStore interface {
	Save(snap *model.Snapshot) error
}

// Journal records per-URL outcomes. Journal writes are best effort and
// never influence the crawl.
type Journal interface {
	RecordPage(ctx context.Context, rec model.PageRecord) error
}

// Progress receives an Update after every processed URL.
type Progress interface {
	Observe(u Update)
}

// Update is one progress observation emitted by the driver.
type Update struct {
	// URL is the page that was just processed.
	URL string

	// Depth is the frontier depth of that page.
	Depth int

	// PagesSaved and PagesCrawled are the running totals, including
	// pages from earlier runs of a resumed crawl.
	PagesSaved   int
	PagesCrawled int

	// QueueLen is the current frontier length.
	QueueLen int
}

// StopReason explains why the crawl loop exited.
type StopReason string

// Stop reasons reported in Result and in the final summary.
const (
	StopBudget    StopReason = "page budget reached"
	StopExhausted StopReason = "frontier exhausted"
	StopRequested StopReason = "stop requested"
)

// Result summarizes a finished crawl run.
type Result struct {
	// Reason is why the loop stopped.
	Reason StopReason

	// PagesSaved and PagesCrawled are the final counter values.
	PagesSaved   int
	PagesCrawled int

	// FrontierLen and VisitedCount describe the state left behind for
	// a later resume.
	FrontierLen  int
	VisitedCount int

	// Elapsed is the wall-clock duration of this run.
	Elapsed time.Duration
}

// State is the mutable crawl state: the frontier plus the two counters.
// It is mutated only by the driver's control loop, never concurrently.
type State struct {
	frontier     *Frontier
	pagesSaved   int
	pagesCrawled int
}

// NewState returns empty crawl state for a fresh crawl.
func NewState() *State {
	return &State{frontier: NewFrontier()}
}

// RestoreState rebuilds crawl state from a checkpoint snapshot.
func RestoreState(snap *model.Snapshot) *State {
	return &State{
		frontier:     RestoreFrontier(snap.Frontier, snap.Visited),
		pagesSaved:   snap.PagesSaved,
		pagesCrawled: snap.PagesCrawled,
	}
}

// Snapshot exports the state as a serializable checkpoint for target.
func (st *State) Snapshot(target string) *model.Snapshot {
	return &model.Snapshot{
		Version:      model.SnapshotVersion,
		Target:       target,
		Frontier:     st.frontier.Entries(),
		Visited:      st.frontier.VisitedURLs(),
		PagesSaved:   st.pagesSaved,
		PagesCrawled: st.pagesCrawled,
		SavedAt:      time.Now(),
	}
}

// Driver runs the crawl state machine: INIT (build or restore state),
// RUNNING (the step loop), STOPPING (final checkpoint), DONE.
type Driver struct {
	scope     *Scope
	fetcher   Fetcher
	artifacts ArtifactWriter
	text      TextExtractor
	links     LinkExtractor

	// Optional collaborators; nil disables the concern.
	store    CheckpointStore
	journal  Journal
	progress Progress

	logger *slog.Logger

	// maxPages is the page budget: the crawl stops once this many pages
	// have been accepted and saved. Fetched-but-rejected pages do not
	// count against it.
	maxPages int

	// maxDepth limits how far from the seed links the crawl expands.
	// Entries beyond it are discarded; links are not expanded at it.
	maxDepth int

	// saveInterval is the number of accepted pages between periodic
	// checkpoints.
	saveInterval int

	// delay is an optional politeness pause between requests. Zero, the
	// default, issues requests back to back.
	delay time.Duration

	state *State
}

// Option configures a Driver.
type Option func(*Driver)

// WithMaxPages sets the accepted-page budget.
func WithMaxPages(n int) Option {
	return func(d *Driver) {
		d.maxPages = n
	}
}

// WithMaxDepth sets the maximum frontier depth.
func WithMaxDepth(n int) Option {
	return func(d *Driver) {
		d.maxDepth = n
	}
}

// WithSaveInterval sets the number of accepted pages between periodic
// checkpoints.
func WithSaveInterval(n int) Option {
	return func(d *Driver) {
		d.saveInterval = n
	}
}

// WithDelay sets the politeness pause between requests.
func WithDelay(delay time.Duration) Option {
	return func(d *Driver) {
		d.delay = delay
	}
}

// WithCheckpointStore enables periodic and exit checkpoints.
func WithCheckpointStore(store CheckpointStore) Option {
	return func(d *Driver) {
		d.store = store
	}
}

// WithJournal enables per-URL journal records.
func WithJournal(j Journal) Option {
	return func(d *Driver) {
		d.journal = j
	}
}

// WithProgress enables progress observations.
func WithProgress(p Progress) Option {
	return func(d *Driver) {
		d.progress = p
	}
}

// WithLogger sets the driver's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithState installs state restored from a checkpoint. Without it the
// driver starts fresh and seeds the frontier from the target page.
func WithState(st *State) Option {
	return func(d *Driver) {
		d.state = st
	}
}

// NewDriver wires the crawl engine to its collaborators.
//
// Design decision: fetching, extraction, and storage are constructor
// parameters rather than fields with defaults because:
//  1. The engine has no reasonable zero-value collaborator; a driver
//     without a fetcher or artifact writer cannot make progress
//  2. Tests exercise the full state machine with in-memory fakes
//  3. Import direction stays one-way: adapters import nothing from here
func NewDriver(scope *Scope, fetcher Fetcher, artifacts ArtifactWriter, text TextExtractor, links LinkExtractor, opts ...Option) *Driver {
	d := &Driver{
		scope:        scope,
		fetcher:      fetcher,
		artifacts:    artifacts,
		text:         text,
		links:        links,
		logger:       slog.Default(),
		maxPages:     150,
		maxDepth:     10,
		saveInterval: 100,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run executes the crawl until the page budget is reached, the frontier
// is exhausted, or ctx is cancelled. Cancellation is cooperative: it is
// observed once per loop iteration, so the page in flight always
// completes and is accounted for before the loop stops.
//
// Every exit path writes a final checkpoint. Run never fails: per-page
// errors degrade to "no text, no links" and checkpoint errors are
// reported as warnings while the crawl continues in memory.
func (d *Driver) Run(ctx context.Context) *Result {
	start := time.Now()

	if d.state == nil {
		d.state = NewState()
		d.seed(ctx)
	}

	reason := d.loop(ctx)
	d.checkpoint()

	d.logger.Info("crawl finished",
		"reason", string(reason),
		"pages_saved", d.state.pagesSaved,
		"pages_crawled", d.state.pagesCrawled,
		"queued", d.state.frontier.Len(),
	)

	return &Result{
		Reason:       reason,
		PagesSaved:   d.state.pagesSaved,
		PagesCrawled: d.state.pagesCrawled,
		FrontierLen:  d.state.frontier.Len(),
		VisitedCount: d.state.frontier.VisitedCount(),
		Elapsed:      time.Since(start),
	}
}

// loop is the RUNNING state. It returns the reason for entering STOPPING.
func (d *Driver) loop(ctx context.Context) StopReason {
	// Pages in flight are never cancelled; the stop request takes
	// effect at the top of the loop, between pages.
	pageCtx := context.WithoutCancel(ctx)

	for {
		if d.state.pagesSaved >= d.maxPages {
			return StopBudget
		}
		if d.state.frontier.Len() == 0 {
			return StopExhausted
		}
		if ctx.Err() != nil {
			return StopRequested
		}

		entry, ok := d.state.frontier.Next()
		if !ok {
			return StopExhausted
		}
		if d.state.frontier.Visited(entry.URL) || entry.Depth > d.maxDepth {
			continue
		}

		d.state.frontier.MarkVisited(entry.URL)
		d.state.pagesCrawled++

		d.step(pageCtx, entry)

		if d.progress != nil {
			d.progress.Observe(Update{
				URL:          entry.URL,
				Depth:        entry.Depth,
				PagesSaved:   d.state.pagesSaved,
				PagesCrawled: d.state.pagesCrawled,
				QueueLen:     d.state.frontier.Len(),
			})
		}

		if d.delay > 0 && d.state.frontier.Len() > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(d.delay):
			}
		}
	}
}

// step processes one dequeued page: fetch, extract, accept or reject,
// persist, checkpoint at the configured interval, expand links.
func (d *Driver) step(ctx context.Context, entry model.FrontierEntry) {
	rec := model.PageRecord{URL: entry.URL, Depth: entry.Depth}

	body, err := d.fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		d.logger.Debug("fetch failed", "url", entry.URL, "error", err)
		rec.Note = "fetch: " + err.Error()
	}

	var text string
	var usable bool
	if err == nil {
		text, usable = d.text.ExtractText(body)
		rec.TextChars = utf8.RuneCountInString(text)
	}

	// Single-line extracts are presumed boilerplate, not article body.
	if usable && lineCount(text) > 1 {
		name, werr := d.artifacts.Save(text)
		if werr != nil {
			d.logger.Warn("artifact write failed", "url", entry.URL, "error", werr)
			rec.Note = "save: " + werr.Error()
		} else {
			d.state.pagesSaved++
			rec.Accepted = true
			rec.Artifact = name
			d.logger.Debug("page saved",
				"url", entry.URL,
				"artifact", name,
				"pages_saved", d.state.pagesSaved,
			)
			if d.saveInterval > 0 && d.state.pagesSaved%d.saveInterval == 0 {
				d.checkpoint()
			}
		}
	}

	if err == nil && entry.Depth < d.maxDepth {
		d.expand(body, entry)
	}

	rec.CrawledAt = time.Now()
	if d.journal != nil {
		if jerr := d.journal.RecordPage(ctx, rec); jerr != nil {
			d.logger.Debug("journal write failed", "url", entry.URL, "error", jerr)
		}
	}
}

// expand enqueues the in-scope links of a page at depth+1.
func (d *Driver) expand(body []byte, entry model.FrontierEntry) {
	links, err := d.links.ExtractLinks(body, entry.URL)
	if err != nil {
		d.logger.Debug("link extraction failed", "url", entry.URL, "error", err)
		return
	}
	for _, link := range links {
		link = NormalizeURL(link)
		if !d.scope.Allows(link) {
			continue
		}
		d.state.frontier.Enqueue(link, entry.Depth+1)
	}
}

// seed bootstraps a fresh frontier from the target page's outbound
// links. The target itself is never enqueued; its links form depth 1.
// Failure leaves the frontier empty, which ends the crawl cleanly.
func (d *Driver) seed(ctx context.Context) {
	target := d.scope.Target()

	body, err := d.fetcher.Fetch(context.WithoutCancel(ctx), target)
	if err != nil {
		d.logger.Warn("seed fetch failed", "url", target, "error", err)
		return
	}
	links, err := d.links.ExtractLinks(body, target)
	if err != nil {
		d.logger.Warn("seed parse failed", "url", target, "error", err)
		return
	}

	inScope := make([]string, 0, len(links))
	for _, link := range links {
		link = NormalizeURL(link)
		if d.scope.Allows(link) {
			inScope = append(inScope, link)
		}
	}
	d.state.frontier.Seed(inScope)

	d.logger.Info("frontier seeded", "target", target, "links", len(inScope))
}

// checkpoint writes a full snapshot. Failures are reported and swallowed:
// the crawl keeps its state in memory regardless.
func (d *Driver) checkpoint() {
	if d.store == nil {
		return
	}
	if err := d.store.Save(d.state.Snapshot(d.scope.Target())); err != nil {
		d.logger.Warn("checkpoint write failed, crawl continues in memory", "error", err)
	}
}

// lineCount counts lines the way a final trailing newline does not:
// "a\nb" is two lines, "a\n" is one.
func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
