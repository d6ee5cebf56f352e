// Package pkglog configures slog for the service and the CLI.
//
// Service logs are JSON with stable "ts" and "severity" keys; every record
// carries the service name and, when present, the request correlation ID.
package pkglog
