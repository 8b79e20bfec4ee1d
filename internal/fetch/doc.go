// Package fetch implements the HTTP page fetcher used by the crawl
// engine. It owns request headers, the response size limit, and
// charset transcoding to UTF-8; the per-request timeout comes from the
// injected http.Client.
package fetch
