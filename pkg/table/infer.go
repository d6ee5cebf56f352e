package table

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("parse failure")

// ParseError reports content that does not conform to its detected format.
type ParseError struct {
	Line int // 1-based source line or sheet row, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse failure at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse failure: %v", e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// InferOptions tunes how raw records become a Table.
type InferOptions struct {
	// NullTokens lists extra cell values read as missing; "" is always missing.
	NullTokens []string
}

var numre = regexp.MustCompile(`^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?$`)

// ParseNumber reports whether s is a plain finite decimal number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numre.MatchString(s) {
		return 0, false
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return x, true
}

// wideInteger returns the canonical digits of an integer literal that x,
// its float64 value, cannot reproduce.
func wideInteger(s string, x float64) (string, bool) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return "", false
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "", false
	}
	if neg {
		s = "-" + s
	}
	if FormatNumber(x) == s {
		return "", false
	}
	return s, true
}

// FromRecords builds a Table from a header and its data records. Records
// shorter than the header are padded with missing cells; longer ones fail.
// firstLine is the source line of rows[0], used in errors.
func FromRecords(header []string, rows [][]string, firstLine int, opt InferOptions) (*Table, error) {
	if len(header) == 0 {
		return nil, &ParseError{Err: errors.New("no header row")}
	}
	for i, rec := range rows {
		if len(rec) > len(header) {
			return nil, &ParseError{
				Line: firstLine + i,
				Err:  fmt.Errorf("expected %d fields, got %d", len(header), len(rec)),
			}
		}
	}

	missing := make(map[string]struct{}, len(opt.NullTokens)+1)
	missing[""] = struct{}{}
	for _, tok := range opt.NullTokens {
		missing[tok] = struct{}{}
	}
	isMissing := func(v string) bool {
		_, ok := missing[v]
		return ok
	}

	names := ColumnNames(header)
	kinds := inferKinds(len(names), rows, isMissing)
	schema := Schema{Columns: make([]ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = ColumnSchema{Name: names[i], Type: kinds[i]}
	}

	t := New(schema)
	for _, rec := range rows {
		t.AppendNullRow()
		row := t.Rows() - 1
		for c := range rec {
			val := strings.ToValidUTF8(rec[c], "?")
			if isMissing(val) {
				continue
			}
			switch col := t.cols[c].(type) {
			case *NumericColumn:
				x, _ := ParseNumber(val)
				if lit, ok := wideInteger(val, x); ok {
					col.SetExact(row, x, lit)
				} else {
					col.Set(row, x)
				}
			case *TextColumn:
				col.Set(row, val)
			}
		}
	}
	return t, nil
}

// ColumnNames cleans raw header cells: the BOM is stripped, blank names
// become "Unnamed: i" and repeated names get ".1", ".2", ... suffixes.
func ColumnNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	dups := make(map[string]int)
	for i, h := range header {
		h = strings.ToValidUTF8(h, "?")
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			dups[h]++
			name = h + "." + strconv.Itoa(dups[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func inferKinds(ncol int, rows [][]string, isMissing func(string) bool) []Kind {
	kinds := make([]Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, str := 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := row[c]
			if isMissing(v) {
				continue
			}
			if _, ok := ParseNumber(v); ok {
				num++
			} else {
				str++
				break
			}
		}
		switch {
		case str > 0:
			kinds[c] = KindText
		case num > 0:
			kinds[c] = KindNumeric
		default:
			kinds[c] = KindUnknown
		}
	}
	return kinds
}
