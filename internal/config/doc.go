// Package config provides configuration structures and utilities for
// nepcrawl. It defines the crawl options resolved from defaults, the
// optional YAML configuration file, and CLI flags.
package config
