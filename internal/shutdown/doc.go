// Package shutdown turns OS signals into cooperative crawl cancellation.
//
// The first interrupt cancels a context; the crawl loop notices at its
// next iteration boundary, writes a final checkpoint, and unwinds
// normally. A second interrupt only prints a reminder that shutdown is
// already in progress, because aborting harder would lose state.
package shutdown
