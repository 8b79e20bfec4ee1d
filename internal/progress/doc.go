// Package progress renders live crawl progress on the terminal.
//
// It adapts github.com/schollz/progressbar/v3 to the crawler's Progress
// interface: the bar position tracks saved pages against the budget,
// while the description carries the rest of the per-page status
// (crawled count, queue length, current depth, crawl speed).
package progress
