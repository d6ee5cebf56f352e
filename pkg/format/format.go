// Package format maps file names and user selections to tabular formats.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for files whose extension has no reader.
var ErrUnsupported = errors.New("unsupported file type")

type Format int

const (
	Unsupported Format = iota
	CSV
	Excel
	// Parquet is an export-only target.
	Parquet
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "CSV"
	case Excel:
		return "EXCEL"
	case Parquet:
		return "PARQUET"
	default:
		return "UNSUPPORTED"
	}
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Extension returns the canonical file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return ".csv"
	case Excel:
		return ".xlsx"
	case Parquet:
		return ".parquet"
	default:
		return ""
	}
}

// MimeType returns the fixed content type of an encoded artifact.
func (f Format) MimeType() string {
	switch f {
	case CSV:
		return "text/csv"
	case Excel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case Parquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

// Detect classifies an uploaded file by its lowercased extension.
func Detect(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return CSV
	case ".xlsx":
		return Excel
	default:
		return Unsupported
	}
}

// DetectStrict is Detect with an error naming the rejected extension.
func DetectStrict(name string) (Format, error) {
	f := Detect(name)
	if f == Unsupported {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			ext = "(none)"
		}
		return Unsupported, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	return f, nil
}

// Parse maps a user selector such as "csv", "Excel" or "xlsx" to a target.
func Parse(selector string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(selector, "."))) {
	case "csv":
		return CSV, nil
	case "excel", "xlsx":
		return Excel, nil
	case "parquet":
		return Parquet, nil
	default:
		return Unsupported, fmt.Errorf("%w: target %q", ErrUnsupported, selector)
	}
}

// OutputName replaces the extension of name with the target's extension.
func OutputName(name string, target Format) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base + target.Extension()
}
