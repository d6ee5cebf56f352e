// Package pkguid generates identifiers for sessions and requests.
package pkguid

import "github.com/google/uuid"

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered UUIDv7 strings.
type UUID struct{}

func NewUUID() *UUID { return &UUID{} }

func (u *UUID) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
