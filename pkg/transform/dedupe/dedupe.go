// Package dedupe removes repeated rows from a table.
package dedupe

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"github.com/wdm0006/datasweeper/pkg/table"
)

// RemoveDuplicates drops every row equal to an earlier one across all
// columns, missing cells included. The first occurrence is kept and row
// order is preserved. Removed holds the count of the last Apply.
type RemoveDuplicates struct {
	Removed int
}

func (t *RemoveDuplicates) Name() string { return "remove_duplicates" }
func (t *RemoveDuplicates) Changes() int { return t.Removed }

func (t *RemoveDuplicates) Apply(ctx context.Context, tb *table.Table) (*table.Table, error) {
	t.Removed = Rows(tb)
	return tb, nil
}

// Rows removes duplicate rows in place and returns how many were dropped.
func Rows(tb *table.Table) int {
	n := tb.Rows()
	if n < 2 {
		return 0
	}
	seen := make(map[uint64][]int, n)
	keep := make([]int, 0, n)
	d := xxhash.New()
	for r := 0; r < n; r++ {
		h := fingerprint(d, tb, r)
		dup := false
		for _, k := range seen[h] {
			if equalRows(tb, k, r) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[h] = append(seen[h], r)
		keep = append(keep, r)
	}
	removed := n - len(keep)
	if removed > 0 {
		tb.KeepRows(keep)
	}
	return removed
}

func fingerprint(d *xxhash.Digest, tb *table.Table, r int) uint64 {
	d.Reset()
	for c := 0; c < tb.Cols(); c++ {
		col := tb.Column(c)
		if col.IsNull(r) {
			_, _ = d.Write([]byte{0})
			continue
		}
		_, _ = d.Write([]byte{1})
		_, _ = d.WriteString(col.Format(r))
		_, _ = d.Write([]byte{0x1f})
	}
	return d.Sum64()
}

func equalRows(tb *table.Table, a, b int) bool {
	for c := 0; c < tb.Cols(); c++ {
		col := tb.Column(c)
		if col.IsNull(a) != col.IsNull(b) || col.Format(a) != col.Format(b) {
			return false
		}
	}
	return true
}
