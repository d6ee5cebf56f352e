package xlsxio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/datasweeper/pkg/table"
)

// SheetName is the single worksheet every exported workbook holds.
const SheetName = "Sheet1"

// Check reports the first reason t cannot be stored in a worksheet.
func Check(t *table.Table) error {
	if t.Cols() > excelize.MaxColumns {
		return fmt.Errorf("%d columns exceed the worksheet limit of %d", t.Cols(), excelize.MaxColumns)
	}
	if t.Rows() > excelize.TotalRows-1 {
		return fmt.Errorf("%d rows exceed the worksheet limit of %d", t.Rows(), excelize.TotalRows-1)
	}
	for c := 0; c < t.Cols(); c++ {
		name := t.Schema().Columns[c].Name
		if utf8.RuneCountInString(name) > excelize.TotalCellChars {
			return fmt.Errorf("column name %.20q... exceeds %d characters", name, excelize.TotalCellChars)
		}
		switch col := t.Column(c).(type) {
		case *table.NumericColumn:
			for r := 0; r < col.Len(); r++ {
				if v, ok := col.Get(r); ok && (math.IsInf(v, 0) || math.IsNaN(v)) {
					return fmt.Errorf("column %s row %d: non-finite number %v", name, r+1, v)
				}
			}
		case *table.TextColumn:
			for r := 0; r < col.Len(); r++ {
				if v, ok := col.Get(r); ok && utf8.RuneCountInString(v) > excelize.TotalCellChars {
					return fmt.Errorf("column %s row %d: text exceeds %d characters", name, r+1, excelize.TotalCellChars)
				}
			}
		}
	}
	return nil
}

// Write stores t in a new workbook with a header row on Sheet1. Numeric
// cells are written as numbers, missing cells stay empty.
func Write(w io.Writer, t *table.Table) error {
	if err := Check(t); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	names := t.Schema().Names()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for r := 0; r < t.Rows(); r++ {
		row := make([]interface{}, t.Cols())
		for c := 0; c < t.Cols(); c++ {
			switch col := t.Column(c).(type) {
			case *table.NumericColumn:
				if v, ok := col.Get(r); ok {
					row[c] = v
				}
			case *table.TextColumn:
				if v, ok := col.Get(r); ok {
					row[c] = v
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	var buf *bytes.Buffer
	if buf, err = f.WriteToBuffer(); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
