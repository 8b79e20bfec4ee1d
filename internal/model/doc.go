// Package model defines the core data structures used throughout nepcrawl.
//
// This package contains the following main types:
//   - FrontierEntry: A (URL, depth) pair waiting in the crawl frontier
//   - Snapshot: The durable checkpoint of the full crawl state
//   - PageRecord: One journal row describing a processed URL
//   - CrawlSummary: The end-of-run figures consumed by report writers
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, checkpoint, journal, report) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for checkpoint files and
// database storage.
package model
