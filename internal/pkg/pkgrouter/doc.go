// Package pkgrouter wraps httprouter with the JSON envelope, error mapping
// and the middleware shared by every endpoint: panic recovery, correlation
// IDs, request logging and metrics.
package pkgrouter
