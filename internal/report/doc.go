// Package report provides crawl report generation and output.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable end-of-run summary for the terminal
//   - MarkdownWriter: GitHub-flavored Markdown report for sharing
//
// Design decision: We separate report writing from report data
// structures (which are in the model package) to follow the single
// responsibility principle. This allows adding new output formats
// without modifying the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
