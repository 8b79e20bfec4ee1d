package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// DefaultUserAgent identifies the crawler on every request, as required
// for an unattended corpus crawl against a third-party site.
const DefaultUserAgent = "Mozilla/5.0 (compatible; nepcrawl/1.0; +https://github.com/nepcorpus/nepcrawl)"

// DefaultMaxBodySize bounds how much of a response is read. Article
// pages are far smaller; the limit guards against accidental downloads.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Client fetches pages over HTTP, returning bodies transcoded to UTF-8.
//
// Design decision: We take the http.Client from the caller rather than
// building one internally because:
//  1. The timeout is configuration owned by the command layer
//  2. Tests can inject an httptest client or custom transport
//  3. Connection pooling is shared across the whole run
type Client struct {
	// httpClient performs the requests and enforces the timeout.
	httpClient *http.Client

	// userAgent is sent on every request.
	userAgent string

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// New creates a page fetcher on top of the given HTTP client.
func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient:  httpClient,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch performs a GET request and returns the response body as UTF-8.
// Bodies in legacy encodings are transcoded based on the Content-Type
// header and in-document hints. Non-2xx responses are errors; redirects
// are followed by the underlying client.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ne-NP,ne;q=0.9,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", pageURL, resp.Status)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, c.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", pageURL, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", pageURL, err)
	}

	return body, nil
}
