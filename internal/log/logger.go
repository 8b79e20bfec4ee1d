package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the maximum length in bytes a string attribute
// keeps before it is clipped. 512 bytes fits any reasonable URL while
// cutting multi-kilobyte text previews down to a single log line.
const DefaultMaxValueLen = 512

// ClipMarker is appended to values that were clipped.
const ClipMarker = "...[clipped]"

// ClipHandler wraps an slog.Handler to clip oversized attribute values.
// It intercepts log records and truncates long string attributes before
// passing them to the underlying handler.
//
// Design decision: We use a handler wrapper rather than truncating at
// call sites because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. It covers every call site, including attributes attached with
//     Logger.With long before the record is emitted
type ClipHandler struct {
	// handler is the underlying slog handler that receives clipped records.
	handler slog.Handler

	// maxLen is the longest string value passed through unclipped.
	maxLen int
}

// NewClipHandler creates a new ClipHandler wrapping the given handler.
// String attributes longer than maxLen bytes are clipped before being
// passed to the underlying handler. If maxLen is zero or negative,
// DefaultMaxValueLen is used. If handler is nil, the returned
// ClipHandler uses slog.Default().Handler().
func NewClipHandler(handler slog.Handler, maxLen int) *ClipHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &ClipHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ClipHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle clips the record's attributes and passes it to the underlying handler.
func (h *ClipHandler) Handle(ctx context.Context, r slog.Record) error {
	clipped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		clipped.AddAttrs(h.clipAttr(a))
		return true
	})

	return h.handler.Handle(ctx, clipped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are clipped before being added.
func (h *ClipHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clippedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clippedAttrs[i] = h.clipAttr(a)
	}
	return &ClipHandler{handler: h.handler.WithAttrs(clippedAttrs), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *ClipHandler) WithGroup(name string) slog.Handler {
	return &ClipHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// clipAttr clips a single attribute, recursively handling groups.
// Only string values are clipped; numbers, times, and errors pass
// through untouched.
func (h *ClipHandler) clipAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		clippedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			clippedAttrs[i] = h.clipAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clippedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); len(s) > h.maxLen {
			return slog.String(a.Key, clipString(s, h.maxLen))
		}
	}

	return a
}

// clipString truncates s to at most maxLen bytes and appends ClipMarker.
// The cut backs up to a rune boundary: corpus pages are Devanagari, and
// slicing mid-rune would emit invalid UTF-8 into the log stream.
func clipString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ClipMarker
}

// New creates a new slog.Logger with value clipping and human-readable
// text output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewClipHandler(textHandler, DefaultMaxValueLen))
}

// NewJSON creates a new slog.Logger with value clipping that outputs
// JSON format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger configured for JSON output with clipping.
func NewJSON(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewClipHandler(jsonHandler, DefaultMaxValueLen))
}
