// Package main provides the entry point for the nepcrawl CLI.
//
// nepcrawl collects a Nepali text corpus by crawling a single news site
// breadth-first. Article paragraphs that pass a language filter are saved
// as sequential page_N.txt files, and crawl state is checkpointed so an
// interrupted run can be resumed.
//
// Usage:
//
//	nepcrawl https://www.nepalpress.com
//	nepcrawl --resume https://www.nepalpress.com
//
// See --help for all available options.
package main

// main is the entry point for nepcrawl.
func main() {
	Execute()
}
