package csvio

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/wdm0006/datasweeper/pkg/table"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// Write encodes t as CSV with a header row and no index column. Missing
// cells are written as empty fields.
func Write(w io.Writer, t *table.Table, opt WriterOptions) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	if err := cw.Write(t.Schema().Names()); err != nil {
		return err
	}
	single := t.Cols() == 1
	for r := 0; r < t.Rows(); r++ {
		rec := t.Record(r)
		if single && rec[0] == "" {
			// a bare empty line is skipped by readers, quote it
			cw.Flush()
			if _, err := bw.WriteString("\"\"\n"); err != nil {
				return err
			}
			continue
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
