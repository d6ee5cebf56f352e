// Package impute replaces missing numeric cells.
package impute

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wdm0006/datasweeper/pkg/table"
)

type Strategy string

const (
	StrategyMean     Strategy = "mean"
	StrategyMedian   Strategy = "median"
	StrategyConstant Strategy = "constant"
)

// ParseStrategy accepts mean, median or constant; "" means mean.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrategyMean, nil
	case StrategyMean, StrategyMedian, StrategyConstant:
		return st, nil
	default:
		return "", fmt.Errorf("unknown fill strategy %q", s)
	}
}

// FillMissing fills every numeric column. Text and unknown columns are left
// alone. A column with no present values is left missing unless the
// strategy is constant. Filled holds the count of the last Apply.
type FillMissing struct {
	Strategy Strategy
	Value    float64 // used by StrategyConstant
	Filled   int
}

func (t *FillMissing) Name() string { return "fill_missing" }
func (t *FillMissing) Changes() int { return t.Filled }

func (t *FillMissing) Apply(ctx context.Context, tb *table.Table) (*table.Table, error) {
	st := t.Strategy
	if st == "" {
		st = StrategyMean
	}
	t.Filled = 0
	for _, i := range tb.Schema().Numeric() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := tb.Column(i).(*table.NumericColumn)
		var n int
		switch st {
		case StrategyMean:
			n = (&Mean{Column: c.Name()}).fill(c)
		case StrategyMedian:
			n = (&Median{Column: c.Name()}).fill(c)
		case StrategyConstant:
			n = (&Constant{Column: c.Name(), Value: t.Value}).fill(c)
		default:
			return nil, fmt.Errorf("unknown fill strategy %q", st)
		}
		t.Filled += n
	}
	return tb, nil
}

// Mean fills one numeric column with the mean of its present values.
type Mean struct{ Column string }

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, tb *table.Table) (*table.Table, error) {
	c, err := numeric(tb, t.Column)
	if err != nil {
		return nil, err
	}
	t.fill(c)
	return tb, nil
}

func (t *Mean) fill(c *table.NumericColumn) int {
	vals := c.Present()
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return fillNulls(c, sum/float64(len(vals)))
}

// Median fills one numeric column with the median of its present values.
type Median struct{ Column string }

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, tb *table.Table) (*table.Table, error) {
	c, err := numeric(tb, t.Column)
	if err != nil {
		return nil, err
	}
	t.fill(c)
	return tb, nil
}

func (t *Median) fill(c *table.NumericColumn) int {
	vals := c.Present()
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	var med float64
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		med = (vals[mid-1] + vals[mid]) / 2
	} else {
		med = vals[mid]
	}
	return fillNulls(c, med)
}

// Constant fills one numeric column with a fixed value.
type Constant struct {
	Column string
	Value  float64
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, tb *table.Table) (*table.Table, error) {
	c, err := numeric(tb, t.Column)
	if err != nil {
		return nil, err
	}
	t.fill(c)
	return tb, nil
}

func (t *Constant) fill(c *table.NumericColumn) int { return fillNulls(c, t.Value) }

func fillNulls(c *table.NumericColumn, v float64) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			c.Set(i, v)
			n++
		}
	}
	return n
}

func numeric(tb *table.Table, name string) (*table.NumericColumn, error) {
	col, ok := tb.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	c, ok := col.(*table.NumericColumn)
	if !ok {
		return nil, fmt.Errorf("column %q is %s, not numeric", name, col.Kind())
	}
	return c, nil
}
