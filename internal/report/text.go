package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs the human-readable end-of-run summary.
// The format is the crawl's historical terminal epilogue: a one-line
// saved/crawled tally, the total time, and where the state and corpus
// ended up.
//
// Design decision: We use plain text without ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showRecent controls whether recently processed pages are listed
	// after the summary.
	showRecent bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithRecentPages configures the writer to list recently processed
// pages after the summary lines.
func WithRecentPages(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showRecent = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *TextWriter) Write(data *Data) (int, error) {
	var sb strings.Builder

	s := data.Summary
	sb.WriteString(fmt.Sprintf("\nSaved pages: %d/%d | Crawled %d pages in total.\n",
		s.PagesSaved, s.MaxPages, s.PagesCrawled))
	sb.WriteString(fmt.Sprintf("Total time: %.2f seconds.\n", s.Elapsed.Seconds()))
	sb.WriteString(fmt.Sprintf("Stopped: %s.\n", s.StopReason))

	if s.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("Corpus directory: %s\n", s.OutputDir))
	}
	if s.StateFile != "" {
		sb.WriteString(fmt.Sprintf("State saved to %s (resume with --resume)\n", s.StateFile))
	}

	if w.showRecent && len(data.Recent) > 0 {
		sb.WriteString("\nRecent pages:\n")
		for _, rec := range data.Recent {
			sb.WriteString(fmt.Sprintf("  [%s] depth %d  %s\n", rec.Outcome(), rec.Depth, rec.URL))
		}
	}

	return w.output.Write([]byte(sb.String()))
}
