// Package config loads Glowlink configuration from YAML with environment
// variable overrides and validates it before the rest of the process starts.
package config
