// Package extract implements the two HTML extractors the crawl engine
// consumes: outbound links resolved against a base URL, and
// Nepali-language paragraph text cleaned down to Devanagari.
//
// Both extractors are pure functions over page bytes; errors and pages
// without usable content degrade to empty results so a single bad page
// never disturbs the crawl.
package extract
