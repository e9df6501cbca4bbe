// Package config loads, validates, and normalizes legisync configuration.
//
// Configuration lives in a single TOML file resolved from an explicit path,
// ~/.config/legisync/config.toml, or ./legisync.toml in that order. Defaults
// cover every field so a missing file still yields a usable config apart
// from the required storage bucket.
package config
