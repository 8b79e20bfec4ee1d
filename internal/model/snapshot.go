package model

import (
	"errors"
	"fmt"
	"time"
)

// SnapshotVersion is the current checkpoint format version.
// Bump this when Snapshot gains or changes fields in a way an older
// binary could misread; loaders reject versions they do not know.
const SnapshotVersion = 1

// Validation errors returned by Snapshot.Validate.
var (
	// ErrSnapshotVersion indicates the checkpoint was written by an
	// unknown (likely newer) format version.
	ErrSnapshotVersion = errors.New("model: unsupported snapshot version")

	// ErrSnapshotCounters indicates the saved/crawled counters are
	// inconsistent (negative, or more pages saved than crawled).
	ErrSnapshotCounters = errors.New("model: inconsistent snapshot counters")

	// ErrSnapshotEntry indicates a frontier entry is malformed
	// (empty URL or depth below 1).
	ErrSnapshotEntry = errors.New("model: malformed frontier entry")
)

// FrontierEntry is one unit of pending crawl work: a URL and the depth
// it was discovered at. Seed entries have depth 1; links found on a page
// at depth d are enqueued at d+1. Entries are immutable once enqueued.
type FrontierEntry struct {
	// URL is the absolute, normalized page URL.
	URL string `json:"url"`

	// Depth is the breadth-first distance from the crawl target,
	// starting at 1 for the seed links.
	Depth int `json:"depth"`
}

// Snapshot is the complete durable representation of a crawl in progress.
// It is small enough to serialize wholesale, so there is no partial or
// streaming checkpoint format.
//
// Design decision: the snapshot is an explicit versioned struct rather
// than an opaque dump of runtime state. Old checkpoints stay readable
// when fields are added, and a corrupt or future-versioned file can be
// detected and treated as "no prior state" instead of crashing the crawl.
type Snapshot struct {
	// Version identifies the checkpoint format. See SnapshotVersion.
	Version int `json:"version"`

	// Target is the crawl target URL the snapshot belongs to.
	// Used to warn when a checkpoint is resumed against a different site.
	Target string `json:"target,omitempty"`

	// Frontier holds the pending queue in FIFO order, head first.
	Frontier []FrontierEntry `json:"frontier"`

	// Visited holds the URLs already dequeued for processing,
	// sorted for deterministic output.
	Visited []string `json:"visited"`

	// PagesSaved counts accepted pages written to the corpus.
	PagesSaved int `json:"pages_saved"`

	// PagesCrawled counts URLs actually processed (dequeued and fetched).
	PagesCrawled int `json:"pages_crawled"`

	// SavedAt records when the checkpoint was written.
	SavedAt time.Time `json:"saved_at"`
}

// Validate reports whether the snapshot is internally consistent.
// A snapshot that fails validation must be treated the same as a
// missing checkpoint, never as a fatal error.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, s.Version, SnapshotVersion)
	}
	if s.PagesSaved < 0 || s.PagesCrawled < 0 {
		return fmt.Errorf("%w: saved=%d crawled=%d", ErrSnapshotCounters, s.PagesSaved, s.PagesCrawled)
	}
	if s.PagesSaved > s.PagesCrawled {
		return fmt.Errorf("%w: saved=%d exceeds crawled=%d", ErrSnapshotCounters, s.PagesSaved, s.PagesCrawled)
	}
	for i, e := range s.Frontier {
		if e.URL == "" || e.Depth < 1 {
			return fmt.Errorf("%w: index %d (url=%q, depth=%d)", ErrSnapshotEntry, i, e.URL, e.Depth)
		}
	}
	return nil
}
