// Package pkgerror carries the structured error returned by HTTP handlers.
//
// Domain packages return wrapped sentinels; handlers translate them into an
// Error whose Code decides the HTTP status.
package pkgerror
