// Package config loads wiring configuration for the search backends from
// defaults, an optional YAML file and environment variables, in that order
// of precedence (environment wins).
package config
