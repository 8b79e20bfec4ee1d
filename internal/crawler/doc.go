// Package crawler implements the breadth-first crawl engine: the frontier
// queue, the URL scope rules, and the driver state machine that ties the
// fetch/extract/persist collaborators together.
//
// # Architecture
//
// The package is designed around the Driver type, which owns the single
// control loop. All crawl state (frontier, visited set, counters) is
// mutated only by that loop, so the engine needs no locking.
//
// Design decision: We implement our own engine rather than using a crawler
// framework because:
//  1. Resumability requires the whole crawl state to be an explicit,
//     serializable value, not framework-internal bookkeeping
//  2. The accept/save/checkpoint cycle is the core of the system, not a
//     callback hung off somebody else's scheduler
//  3. One page at a time is a design requirement, not a tuning choice
//
// # Components
//
//   - Scope: same-host and pattern matching plus URL repair
//   - Frontier: FIFO (url, depth) queue guarded by the visited set
//   - Driver: the INIT -> RUNNING -> (STOPPING | DONE) state machine
//
// Collaborators (fetching, text and link extraction, artifact storage,
// checkpointing, journaling, progress) are small interfaces defined here
// and implemented by sibling packages, which keeps the engine testable
// with in-memory fakes.
//
// # Usage
//
//	scope, _ := crawler.NewScope("https://www.nepalpress.com", patterns)
//	d := crawler.NewDriver(scope, client, corpusDir, textEx, linkEx,
//		crawler.WithMaxPages(150),
//		crawler.WithCheckpointStore(store),
//	)
//	result := d.Run(ctx)
package crawler
