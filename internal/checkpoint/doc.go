// Package checkpoint persists the crawl state snapshot to a single JSON
// file. The file is replaced atomically on every save, and loading
// treats a missing file as "no prior state" so a crawl can always start
// fresh regardless of what is on disk.
package checkpoint
