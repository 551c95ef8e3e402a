// Package config loads, normalizes, and validates groupmap configuration.
//
// Configuration lives in a single TOML file resolved from an explicit path,
// ~/.config/groupmap/config.toml, or ./groupmap.toml in that order. Defaults
// cover every field so the pipeline runs against a local cluster with only the
// database credentials filled in.
package config
