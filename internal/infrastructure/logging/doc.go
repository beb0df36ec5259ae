// Package logging provides structured logging for Glowlink built on slog.
package logging
