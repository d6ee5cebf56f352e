package usecase

import (
	"bytes"
	"fmt"

	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/io/csvio"
	"github.com/wdm0006/datasweeper/pkg/io/xlsxio"
	"github.com/wdm0006/datasweeper/pkg/table"
)

// ParseOptions tunes the readers used at upload time.
type ParseOptions struct {
	// Delimiter for CSV files; 0 sniffs it from the content.
	Delimiter rune
	// NullTokens are extra cell values read as missing.
	NullTokens []string
}

// DefaultParseOptions reads comma separated files with only empty cells
// treated as missing.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Delimiter: ','}
}

func parse(ft format.Format, content []byte, opt ParseOptions) (*table.Table, error) {
	switch ft {
	case format.CSV:
		return csvio.Read(bytes.NewReader(content), csvio.ReaderOptions{
			Delimiter:  opt.Delimiter,
			NullTokens: opt.NullTokens,
		})
	case format.Excel:
		return xlsxio.Read(bytes.NewReader(content), xlsxio.ReaderOptions{NullTokens: opt.NullTokens})
	default:
		return nil, fmt.Errorf("no reader for %s: %w", ft, format.ErrUnsupported)
	}
}
