package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/nepcorpus/nepcrawl/internal/crawler"
)

// Bar is a terminal progress bar for a running crawl. It implements the
// crawler's Progress interface: the bar position is the number of saved
// pages against the budget, and the description carries the per-page
// status fields.
type Bar struct {
	bar   *progressbar.ProgressBar
	out   io.Writer
	start time.Time

	// pages counts pages observed this session. Speed is computed from
	// this rather than the crawler's total so a resumed run does not
	// report impossible throughput from pages crawled days ago.
	pages int
}

// New creates a progress bar writing to w. maxPages is the saved-page
// budget and becomes the bar total; initialSaved pre-fills the bar when
// a crawl resumes from saved state.
func New(w io.Writer, maxPages, initialSaved int) *Bar {
	b := progressbar.NewOptions(maxPages,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("saving"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWidth(20),
	)
	if initialSaved > 0 {
		_ = b.Set(initialSaved)
	}
	return &Bar{bar: b, out: w, start: time.Now()}
}

// Observe updates the bar after one processed page.
func (b *Bar) Observe(u crawler.Update) {
	b.pages++

	speed := 0.0
	if elapsed := time.Since(b.start).Seconds(); elapsed > 0 {
		speed = float64(b.pages) / elapsed
	}

	b.bar.Describe(fmt.Sprintf("saving | crawled %d | queue %d | depth %d | %.2f p/s",
		u.PagesCrawled, u.QueueLen, u.Depth, speed))
	_ = b.bar.Set(u.PagesSaved)
}

// Close stops the bar without filling it (crawls routinely stop before
// the budget is reached) and moves the cursor off the bar line.
func (b *Bar) Close() {
	_ = b.bar.Exit()
	fmt.Fprintln(b.out)
}
