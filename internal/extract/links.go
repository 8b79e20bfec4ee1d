package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// LinkExtractor collects the anchor links of a page resolved against its
// base URL.
//
// Design decision: We parse with golang.org/x/net/html rather than regex
// because:
//  1. It survives the malformed markup real news sites serve
//  2. Relative links need proper RFC 3986 resolution, not string fixes
//  3. A tokenizer walk is simpler to maintain than anchor regexes
type LinkExtractor struct{}

// NewLinkExtractor returns a LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses pageHTML and returns every anchor href resolved
// against baseURL, in document order with duplicates removed.
// Pseudo-links (javascript:, mailto:, tel:, data:, bare "#") are dropped.
func (e *LinkExtractor) ExtractLinks(pageHTML []byte, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}

	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse HTML of %s: %w", baseURL, err)
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if resolved := resolveURL(base, href); resolved != "" {
					if _, ok := seen[resolved]; !ok {
						seen[resolved] = struct{}{}
						links = append(links, resolved)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolveURL resolves href against base. Pseudo-links and unparseable
// hrefs resolve to "".
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
