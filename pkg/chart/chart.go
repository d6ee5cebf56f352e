// Package chart builds the two-series bar chart shown for a table.
package chart

import (
	"errors"
	"fmt"

	"github.com/wdm0006/datasweeper/pkg/table"
)

// ErrInsufficientNumeric means the table has fewer than two numeric
// columns. It is a warning for the caller, not a processing failure.
var ErrInsufficientNumeric = errors.New("at least two numeric columns are required")

// Series is one numeric column; nil entries are missing cells.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// Chart plots the first two numeric columns against the row index.
type Chart struct {
	Index  []int     `json:"index"`
	Series [2]Series `json:"series"`
}

// Build selects the first two numeric columns in left-to-right order.
func Build(t *table.Table) (Chart, error) {
	num := t.Schema().Numeric()
	if len(num) < 2 {
		return Chart{}, fmt.Errorf("%w: found %d", ErrInsufficientNumeric, len(num))
	}
	c := Chart{Index: make([]int, t.Rows())}
	for r := range c.Index {
		c.Index[r] = r
	}
	for s := 0; s < 2; s++ {
		col := t.Column(num[s]).(*table.NumericColumn)
		vals := make([]*float64, col.Len())
		for r := range vals {
			if v, ok := col.Get(r); ok {
				vals[r] = &v
			}
		}
		c.Series[s] = Series{Name: col.Name(), Values: vals}
	}
	return c, nil
}

// Bounds returns the smallest and largest present value across both
// series, always spanning zero.
func (c Chart) Bounds() (lo, hi float64) {
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v == nil {
				continue
			}
			if *v < lo {
				lo = *v
			}
			if *v > hi {
				hi = *v
			}
		}
	}
	return lo, hi
}
