// Package journal provides SQLite-based storage for per-page crawl
// outcomes and end-of-run session summaries. The journal is an audit
// trail that outlives individual runs; it never feeds back into crawl
// control flow, so a broken or missing journal only costs history.
package journal
