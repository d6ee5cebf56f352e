// Package standardize normalizes text cells.
package standardize

import (
	"context"
	"fmt"
	"strings"

	"github.com/wdm0006/datasweeper/pkg/table"
)

// TrimSpace strips surrounding whitespace from text cells, in one column
// or in every text column when Column is empty. A cell that trims down to
// nothing becomes missing. Changed holds the count of the last Apply.
type TrimSpace struct {
	Column  string
	Changed int
}

func (t *TrimSpace) Name() string { return "trim_space" }
func (t *TrimSpace) Changes() int { return t.Changed }

func (t *TrimSpace) Apply(ctx context.Context, tb *table.Table) (*table.Table, error) {
	t.Changed = 0
	if t.Column != "" {
		col, ok := tb.ColumnByName(t.Column)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", t.Column)
		}
		if c, ok := col.(*table.TextColumn); ok && c.Kind() == table.KindText {
			t.Changed = trim(c)
		}
		return tb, nil
	}
	for i := 0; i < tb.Cols(); i++ {
		if c, ok := tb.Column(i).(*table.TextColumn); ok && c.Kind() == table.KindText {
			t.Changed += trim(c)
		}
	}
	return tb, nil
}

func trim(c *table.TextColumn) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		s := strings.TrimSpace(v)
		if s == v {
			continue
		}
		if s == "" {
			c.SetNull(i)
		} else {
			c.Set(i, s)
		}
		n++
	}
	return n
}
