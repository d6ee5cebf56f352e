// Package profile summarizes the columns of a table.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wdm0006/datasweeper/pkg/table"
)

type NumStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	sum  float64
}

type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type TextStats struct {
	Distinct int    `json:"distinct"`
	Top      []Freq `json:"top,omitempty"`
	freqs    map[string]int
}

type ColumnProfile struct {
	Name    string     `json:"name"`
	Kind    table.Kind `json:"kind"`
	Count   int        `json:"count"`
	Missing int        `json:"missing"`
	Num     *NumStats  `json:"num,omitempty"`
	Text    *TextStats `json:"text,omitempty"`
}

type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

type Collector struct {
	cols []ColumnProfile
	rows int
	topK int
}

// NewCollector prepares per-column accumulators. topK bounds the number of
// most frequent text values kept in the report; 0 disables them.
func NewCollector(schema table.Schema, topK int) *Collector {
	c := &Collector{topK: topK, cols: make([]ColumnProfile, len(schema.Columns))}
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case table.KindNumeric:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case table.KindText:
			cp.Text = &TextStats{freqs: make(map[string]int)}
		}
		c.cols[i] = cp
	}
	return c
}

// Consume adds every row of t; t must share the collector's schema.
func (c *Collector) Consume(t *table.Table) {
	c.rows += t.Rows()
	for i := range c.cols {
		cp := &c.cols[i]
		switch col := t.Column(i).(type) {
		case *table.NumericColumn:
			for r := 0; r < col.Len(); r++ {
				v, ok := col.Get(r)
				if !ok {
					cp.Missing++
					continue
				}
				cp.Count++
				cp.Num.Min = math.Min(cp.Num.Min, v)
				cp.Num.Max = math.Max(cp.Num.Max, v)
				cp.Num.sum += v
			}
		case *table.TextColumn:
			for r := 0; r < col.Len(); r++ {
				v, ok := col.Get(r)
				if !ok {
					cp.Missing++
					continue
				}
				cp.Count++
				if cp.Text != nil {
					cp.Text.freqs[v]++
				}
			}
		}
	}
}

// Report finalizes the collected statistics.
func (c *Collector) Report() Profile {
	out := Profile{Rows: c.rows, Columns: make([]ColumnProfile, len(c.cols))}
	for i, cp := range c.cols {
		if cp.Num != nil {
			ns := NumStats{}
			if cp.Count > 0 {
				ns = NumStats{Min: cp.Num.Min, Max: cp.Num.Max, Mean: cp.Num.sum / float64(cp.Count)}
			}
			cp.Num = &ns
		}
		if cp.Text != nil {
			cp.Text = &TextStats{Distinct: len(cp.Text.freqs), Top: top(cp.Text.freqs, c.topK)}
		}
		out.Columns[i] = cp
	}
	return out
}

func top(freqs map[string]int, k int) []Freq {
	if k <= 0 || len(freqs) == 0 {
		return nil
	}
	arr := make([]Freq, 0, len(freqs))
	for v, n := range freqs {
		arr = append(arr, Freq{Value: v, Count: n})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if k < len(arr) {
		arr = arr[:k]
	}
	return arr
}

// Text renders a profile for terminals.
func (p Profile) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d rows)\n", p.Rows)
	for _, cp := range p.Columns {
		fmt.Fprintf(&b, "- %s (%s): count=%d missing=%d", cp.Name, cp.Kind, cp.Count, cp.Missing)
		switch {
		case cp.Num != nil && cp.Count > 0:
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g\n", cp.Num.Min, cp.Num.Max, cp.Num.Mean)
		case cp.Text != nil:
			fmt.Fprintf(&b, " distinct=%d\n", cp.Text.Distinct)
			for _, f := range cp.Text.Top {
				fmt.Fprintf(&b, "  * %q: %d\n", f.Value, f.Count)
			}
		default:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Of profiles a whole table in one pass.
func Of(t *table.Table, topK int) Profile {
	c := NewCollector(t.Schema(), topK)
	c.Consume(t)
	return c.Report()
}
