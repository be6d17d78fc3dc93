// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys and the service name.
//   - Attaching request correlation IDs (when present) to each log record.
//   - Allowing the level to be set from configuration.
package pkglog
