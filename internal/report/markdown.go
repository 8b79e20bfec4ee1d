package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nepcorpus/nepcrawl/internal/crawler"
	"github.com/nepcorpus/nepcrawl/internal/model"
)

// MarkdownWriter outputs the crawl report in Markdown format.
// This format is designed for documentation and sharing, for example
// committing a run record next to the corpus it produced.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl report in Markdown format.
func (w *MarkdownWriter) Write(data *Data) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, &data.Summary)
	w.writeOutcome(md, &data.Summary)
	w.writeRecentPages(md, data.Recent)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.CrawlSummary) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + s.Target + "`"},
			{"Stopped because", s.StopReason},
			{"Pages saved", fmt.Sprintf("%d of %d budget", s.PagesSaved, s.MaxPages)},
			{"Pages crawled", strconv.Itoa(s.PagesCrawled)},
			{"Frontier remaining", strconv.Itoa(s.FrontierLen)},
			{"Visited URLs", strconv.Itoa(s.VisitedCount)},
			{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
			{"Corpus directory", "`" + s.OutputDir + "`"},
			{"State file", "`" + s.StateFile + "`"},
		},
	})
	md.PlainText("")
}

// writeOutcome writes a saved/skipped pie chart plus an alert
// describing how the crawl ended.
func (w *MarkdownWriter) writeOutcome(md *markdown.Markdown, s *model.CrawlSummary) {
	if s.PagesCrawled > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Crawled Pages"),
			piechart.WithShowData(true),
		)

		if s.PagesSaved > 0 {
			chart.LabelAndIntValue("Saved", uint64(s.PagesSaved))
		}
		if skipped := s.PagesCrawled - s.PagesSaved; skipped > 0 {
			chart.LabelAndIntValue("Skipped", uint64(skipped))
		}

		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch s.StopReason {
	case string(crawler.StopBudget):
		md.Tipf("Page budget reached: %d pages saved. Raise --max-pages to collect more.", s.PagesSaved)
	case string(crawler.StopExhausted):
		md.Note("Frontier exhausted: every reachable in-scope URL within the depth limit has been processed.")
	case string(crawler.StopRequested):
		md.Warningf("The crawl was interrupted with %d URLs still queued. Resume it with --resume.", s.FrontierLen)
	}
	md.PlainText("")
}

// writeRecentPages writes a table of the most recently processed pages.
func (w *MarkdownWriter) writeRecentPages(md *markdown.Markdown, recent []model.PageRecord) {
	md.H2("Recent Pages")
	md.PlainText("")

	if len(recent) == 0 {
		md.PlainText("No page records available (journal disabled).")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(recent))
	for i, rec := range recent {
		artifact := rec.Artifact
		if artifact == "" {
			artifact = "-"
		}

		rows[i] = []string{
			truncateString(rec.URL, 60),
			strconv.Itoa(rec.Depth),
			rec.Outcome(),
			artifact,
			strconv.Itoa(rec.TextChars),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Outcome", "Artifact", "Text Chars"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [nepcrawl](https://github.com/nepcorpus/nepcrawl)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
