// Package config loads, normalizes, and validates whiscribe configuration.
//
// Settings come from a TOML file found at an explicit path, at
// ~/.config/whiscribe/config.toml, or at ./whiscribe.toml, in that order.
// Missing files fall back to repository defaults. Command line flags are
// applied on top by the CLI.
package config
