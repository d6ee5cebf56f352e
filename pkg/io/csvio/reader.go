package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/wdm0006/datasweeper/pkg/table"
)

type ReaderOptions struct {
	Delimiter  rune // 0 = sniff, falls back to ','
	NullTokens []string
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Read parses a whole CSV document. The first record is the header; every
// later record becomes a row. Rows shorter than the header are padded with
// missing cells, longer rows and malformed quoting fail with a
// *table.ParseError.
func Read(r io.Reader, opt ReaderOptions) (*table.Table, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(bom)); bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}

	rr := csv.NewReader(br)
	rr.FieldsPerRecord = -1
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	} else {
		sample, _ := br.Peek(4096)
		rr.Comma = sniffDelimiter(sample)
	}

	var header []string
	var rows [][]string
	firstLine := 0
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &table.ParseError{Line: pe.Line, Err: pe.Err}
			}
			return nil, &table.ParseError{Err: err}
		}
		if header == nil {
			header = rec
			continue
		}
		line, _ := rr.FieldPos(0)
		if firstLine == 0 {
			firstLine = line
		}
		if len(rec) > len(header) {
			return nil, &table.ParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, got %d", len(header), len(rec)),
			}
		}
		rows = append(rows, rec)
	}
	return table.FromRecords(header, rows, firstLine, table.InferOptions{NullTokens: opt.NullTokens})
}

// sniffDelimiter picks the most frequent candidate separator in sample.
func sniffDelimiter(sample []byte) rune {
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := bytes.Count(sample, []byte{c})
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	return rune(best)
}
