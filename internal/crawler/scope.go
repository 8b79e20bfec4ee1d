package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// archiveHostMarker identifies web-archive mirrors. Archived copies of
// the target site carry its pages under an archive host and must never
// enter the frontier.
const archiveHostMarker = "web.archive.org"

// malformedScheme matches an http or https scheme followed by a single
// slash, a mangling common in scraped and hand-edited links.
var malformedScheme = regexp.MustCompile(`^(https?:)/([^/])`)

// NormalizeURL repairs a malformed scheme separator ("http:/example.com"
// instead of "http://example.com"). Well-formed URLs pass through
// unchanged, unparseable input passes through as-is, and the repair is
// idempotent, so it is safe to apply at every URL boundary.
func NormalizeURL(raw string) string {
	return malformedScheme.ReplaceAllString(raw, "${1}//${2}")
}

// Scope decides which URLs belong to the crawl: same host as the target
// and matching at least one configured pattern.
type Scope struct {
	// target is the parsed crawl target; its host anchors the crawl.
	target *url.URL

	// patterns are compiled URL patterns. Empty means the whole host
	// is in scope.
	patterns []*regexp.Regexp
}

// NewScope builds the crawl scope for a target URL.
//
// Patterns are regular expressions matched anywhere in the candidate URL
// string (unanchored). An empty pattern list leaves the crawl
// unconstrained within the target host.
func NewScope(target string, patterns []string) (*Scope, error) {
	u, err := url.Parse(NormalizeURL(target))
	if err != nil {
		return nil, fmt.Errorf("parse target URL %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("target URL %q: scheme must be http or https", target)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("target URL %q: missing host", target)
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile URL pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &Scope{target: u, patterns: compiled}, nil
}

// Target returns the normalized target URL string.
func (s *Scope) Target() string {
	return s.target.String()
}

// Host returns the host the scope is bound to.
func (s *Scope) Host() string {
	return s.target.Host
}

// Allows reports whether rawURL is in scope: parseable, not an archive
// mirror, host exactly equal to the target host, and matching at least
// one pattern (or any URL on the host when no patterns are configured).
func (s *Scope) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if strings.Contains(u.Host, archiveHostMarker) {
		return false
	}
	if u.Host != s.target.Host {
		return false
	}
	if len(s.patterns) == 0 {
		return true
	}
	for _, re := range s.patterns {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}
