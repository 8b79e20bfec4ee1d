// Package log provides logging functionality for nepcrawl, built on top
// of the standard slog package.
//
// This package extends slog to provide:
//   - Clipping of oversized attribute values (long URLs, text previews)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Clipping
//
// Crawl logs routinely carry URLs with tracking query strings and
// extracted-text previews that can run to kilobytes. The ClipHandler
// truncates long string attributes so one noisy page never floods the
// log, while leaving enough of the value to identify it.
//
// # Usage
//
//	// Create a logger
//	logger := log.New(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("page fetched",
//	    "url", pageURL, // clipped if oversized
//	    "depth", depth,
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
