package model

import "time"

// PageRecord describes the outcome of processing a single URL.
// Records are written to the crawl journal for later inspection;
// they never feed back into crawl control flow.
type PageRecord struct {
	// URL is the processed page URL.
	URL string `json:"url"`

	// Depth is the frontier depth the URL was dequeued at.
	Depth int `json:"depth"`

	// CrawledAt is when processing finished.
	CrawledAt time.Time `json:"crawled_at"`

	// Accepted reports whether the page passed the text filter
	// and was written to the corpus.
	Accepted bool `json:"accepted"`

	// Artifact is the corpus file name for accepted pages, empty otherwise.
	Artifact string `json:"artifact,omitempty"`

	// TextChars is the length in runes of the extracted text, 0 if none.
	TextChars int `json:"text_chars"`

	// Note carries a short failure description for pages that produced
	// no usable text, for example a fetch error. Empty on success.
	Note string `json:"note,omitempty"`
}

// Outcome returns a short human-readable label for report tables.
func (r PageRecord) Outcome() string {
	if r.Accepted {
		return "saved"
	}
	return "skipped"
}

// CrawlSummary aggregates the figures printed at the end of a run and
// rendered by report writers.
type CrawlSummary struct {
	// Target is the crawl target URL.
	Target string `json:"target"`

	// StopReason explains why the crawl ended: budget reached,
	// frontier exhausted, or stop requested.
	StopReason string `json:"stop_reason"`

	// PagesSaved is the number of corpus artifacts written in total,
	// including pages saved by earlier runs of a resumed crawl.
	PagesSaved int `json:"pages_saved"`

	// MaxPages is the configured page budget, for "saved X/Y" output.
	MaxPages int `json:"max_pages"`

	// PagesCrawled is the number of URLs processed in total.
	PagesCrawled int `json:"pages_crawled"`

	// FrontierLen is the number of URLs still queued at shutdown.
	FrontierLen int `json:"frontier_len"`

	// VisitedCount is the size of the visited set at shutdown.
	VisitedCount int `json:"visited_count"`

	// Elapsed is the wall-clock duration of this run.
	Elapsed time.Duration `json:"elapsed"`

	// OutputDir is the corpus directory artifacts were written to.
	OutputDir string `json:"output_dir"`

	// StateFile is the checkpoint path for resuming.
	StateFile string `json:"state_file"`
}
