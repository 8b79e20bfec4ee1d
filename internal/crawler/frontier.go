package crawler

import (
	"sort"

	"github.com/nepcorpus/nepcrawl/internal/model"
)

// Frontier is the breadth-first work queue: FIFO entries tagged with the
// depth they were discovered at, guarded by the visited set.
//
// Design decision: FIFO ordering with per-entry depth gives level-order
// traversal without a queue per level; because depth travels with the
// entry rather than being recomputed, traversal order and depth
// accounting stay consistent when the queue is serialized and restored
// mid-crawl.
type Frontier struct {
	// queue holds pending entries, head at index 0.
	queue []model.FrontierEntry

	// visited holds URLs already dequeued for processing. A URL enters
	// the set at most once, at dequeue time. Checking it on enqueue only
	// bounds duplicates in the queue; checking it on dequeue is what
	// guarantees each URL is processed at most once.
	visited map[string]struct{}
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{visited: make(map[string]struct{})}
}

// RestoreFrontier rebuilds a frontier from checkpoint data, preserving
// queue order and visited membership.
func RestoreFrontier(entries []model.FrontierEntry, visited []string) *Frontier {
	f := &Frontier{
		queue:   append([]model.FrontierEntry(nil), entries...),
		visited: make(map[string]struct{}, len(visited)),
	}
	for _, u := range visited {
		f.visited[u] = struct{}{}
	}
	return f
}

// Seed fills the frontier with the crawl's starting URLs at depth 1.
// Duplicates collapse and the result is sorted, so a fresh crawl of the
// same site always starts in the same order.
func (f *Frontier) Seed(urls []string) {
	set := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		set[u] = struct{}{}
	}

	sorted := make([]string, 0, len(set))
	for u := range set {
		sorted = append(sorted, u)
	}
	sort.Strings(sorted)

	for _, u := range sorted {
		f.queue = append(f.queue, model.FrontierEntry{URL: u, Depth: 1})
	}
}

// Enqueue appends a URL at the given depth unless it was already
// processed. It reports whether the entry was added.
func (f *Frontier) Enqueue(url string, depth int) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.queue = append(f.queue, model.FrontierEntry{URL: url, Depth: depth})
	return true
}

// Next pops the head of the queue. ok is false when the frontier is empty.
func (f *Frontier) Next() (entry model.FrontierEntry, ok bool) {
	if len(f.queue) == 0 {
		return model.FrontierEntry{}, false
	}
	entry = f.queue[0]
	f.queue = f.queue[1:]
	return entry, true
}

// MarkVisited records that a URL has been dequeued for processing.
// Idempotent.
func (f *Frontier) MarkVisited(url string) {
	f.visited[url] = struct{}{}
}

// Visited reports whether a URL was already dequeued for processing.
func (f *Frontier) Visited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// Len returns the number of queued entries, duplicates included.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// VisitedCount returns the size of the visited set.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}

// Entries returns a copy of the pending queue in FIFO order.
func (f *Frontier) Entries() []model.FrontierEntry {
	return append([]model.FrontierEntry(nil), f.queue...)
}

// VisitedURLs returns the visited set sorted for deterministic
// checkpoint output.
func (f *Frontier) VisitedURLs() []string {
	urls := make([]string, 0, len(f.visited))
	for u := range f.visited {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
