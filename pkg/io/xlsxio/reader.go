package xlsxio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/datasweeper/pkg/table"
)

type ReaderOptions struct {
	NullTokens []string
}

// Read loads the first worksheet of an OOXML workbook. The first non-empty
// row is the header. Numbers are read raw so they keep their stored
// representation; date, time and boolean cells are read as displayed so
// they infer as text.
func Read(r io.Reader, opt ReaderOptions) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &table.ParseError{Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &table.ParseError{Err: errors.New("workbook has no worksheets")}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &table.ParseError{Err: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}

	if err := displayTyped(f, sheets[0], rows); err != nil {
		return nil, &table.ParseError{Err: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}

	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, &table.ParseError{Err: errors.New("no header row")}
	}
	header := rows[start]
	data := rows[start+1:]
	for i, rec := range data {
		if len(rec) > len(header) {
			return nil, &table.ParseError{
				Line: start + i + 2,
				Err:  fmt.Errorf("expected %d cells, got %d", len(header), len(rec)),
			}
		}
	}
	return table.FromRecords(header, data, start+2, table.InferOptions{NullTokens: opt.NullTokens})
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// displayTyped replaces, in place, the raw value of every numeric-looking
// boolean or date formatted cell with its displayed text.
func displayTyped(f *excelize.File, sheet string, rows [][]string) error {
	var shown [][]string
	dates := make(map[int]bool)
	for r, row := range rows {
		for c, v := range row {
			if _, ok := table.ParseNumber(v); !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return err
			}
			if typ != excelize.CellTypeBool && typ != excelize.CellTypeDate {
				style, err := f.GetCellStyle(sheet, cell)
				if err != nil {
					return err
				}
				isDate, seen := dates[style]
				if !seen {
					isDate = dateStyle(f, style)
					dates[style] = isDate
				}
				if !isDate {
					continue
				}
			}
			if shown == nil {
				if shown, err = f.GetRows(sheet); err != nil {
					return err
				}
			}
			if r < len(shown) && c < len(shown[r]) {
				row[c] = shown[r][c]
			}
		}
	}
	return nil
}

// dateStyle reports whether the cell style renders numbers as a date or
// time, either through a built-in format or a custom format code.
func dateStyle(f *excelize.File, id int) bool {
	if id == 0 {
		return false
	}
	st, err := f.GetStyle(id)
	if err != nil || st == nil {
		return false
	}
	if st.CustomNumFmt != nil {
		return dateCode(*st.CustomNumFmt)
	}
	n := st.NumFmt
	return (n >= 14 && n <= 22) || (n >= 27 && n <= 36) || (n >= 45 && n <= 47) || (n >= 50 && n <= 58)
}

// dateCode looks for date or time tokens in a number format code, ignoring
// quoted literals, escaped characters and bracketed sections such as colors.
func dateCode(code string) bool {
	section := code
	if i := strings.IndexByte(code, ';'); i >= 0 {
		section = code[:i]
	}
	inQuote, inBracket := false, false
	for i := 0; i < len(section); i++ {
		ch := section[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}
