// Package pkgconfig reads service configuration.
//
// Values come from an optional config file, DATASWEEPER_* environment
// variables and in-code defaults, in that order of precedence: env wins
// over file, file wins over defaults.
package pkgconfig
