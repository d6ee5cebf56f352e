package table

import (
	"fmt"
	"math"
	"strconv"
)

// Schema describes the logical shape of a table.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name string
	Type Kind
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Numeric returns the positions of numeric columns, left to right.
func (s Schema) Numeric() []int {
	var out []int
	for i, cs := range s.Columns {
		if cs.Type == KindNumeric {
			out = append(out, i)
		}
	}
	return out
}

// Kind is the column type tag computed once at parse time.
type Kind int

const (
	KindInvalid Kind = iota
	KindNumeric
	KindText
	// KindUnknown marks a column without a single non-empty cell.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// MarshalText lets kinds show up by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = KindNumeric
	case "text":
		*k = KindText
	case "unknown":
		*k = KindUnknown
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	AppendNull()
	// Format renders cell i, "" when missing.
	Format(i int) string
	keep(rows []int)
	clone() Column
}

// NumericColumn stores float64 cells. Integers too wide for a float64 keep
// their source text so encoders write them back digit for digit; any Set
// drops it.
type NumericColumn struct {
	name  string
	data  []float64
	nulls []bool
	exact []string // nil until SetExact is first used
}

func NewNumericColumn(name string, n int) *NumericColumn {
	c := &NumericColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
	for i := range c.nulls {
		c.nulls[i] = true
	}
	return c
}
func (c *NumericColumn) Name() string              { return c.name }
func (c *NumericColumn) Kind() Kind                { return KindNumeric }
func (c *NumericColumn) Len() int                  { return len(c.data) }
func (c *NumericColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *NumericColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }

func (c *NumericColumn) SetNull(i int) {
	c.data[i], c.nulls[i] = 0, true
	c.clearExact(i)
}

func (c *NumericColumn) Set(i int, v float64) {
	c.data[i], c.nulls[i] = v, false
	c.clearExact(i)
}

// SetExact stores v and the literal it was parsed from. The literal is
// what Format returns until the cell is changed.
func (c *NumericColumn) SetExact(i int, v float64, literal string) {
	c.Set(i, v)
	if c.exact == nil {
		c.exact = make([]string, len(c.data))
	}
	c.exact[i] = literal
}

func (c *NumericColumn) clearExact(i int) {
	if c.exact != nil {
		c.exact[i] = ""
	}
}

func (c *NumericColumn) AppendNull() {
	c.data = append(c.data, 0)
	c.nulls = append(c.nulls, true)
	if c.exact != nil {
		c.exact = append(c.exact, "")
	}
}

func (c *NumericColumn) Append(v float64) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
	if c.exact != nil {
		c.exact = append(c.exact, "")
	}
}

func (c *NumericColumn) Format(i int) string {
	if c.nulls[i] {
		return ""
	}
	if c.exact != nil && c.exact[i] != "" {
		return c.exact[i]
	}
	return FormatNumber(c.data[i])
}

// Present returns the non-missing values in row order.
func (c *NumericColumn) Present() []float64 {
	out := make([]float64, 0, len(c.data))
	for i, v := range c.data {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

func (c *NumericColumn) keep(rows []int) {
	data := make([]float64, len(rows))
	nulls := make([]bool, len(rows))
	var exact []string
	if c.exact != nil {
		exact = make([]string, len(rows))
	}
	for i, r := range rows {
		data[i], nulls[i] = c.data[r], c.nulls[r]
		if exact != nil {
			exact[i] = c.exact[r]
		}
	}
	c.data, c.nulls, c.exact = data, nulls, exact
}

func (c *NumericColumn) clone() Column {
	out := &NumericColumn{
		name:  c.name,
		data:  append([]float64(nil), c.data...),
		nulls: append([]bool(nil), c.nulls...),
	}
	if c.exact != nil {
		out.exact = append([]string(nil), c.exact...)
	}
	return out
}

// TextColumn stores text and unknown columns; both hold plain strings.
type TextColumn struct {
	name  string
	kind  Kind
	data  []string
	nulls []bool
}

func NewTextColumn(name string, n int) *TextColumn {
	return newStringColumn(name, KindText, n)
}

func newStringColumn(name string, k Kind, n int) *TextColumn {
	c := &TextColumn{name: name, kind: k, data: make([]string, n), nulls: make([]bool, n)}
	for i := range c.nulls {
		c.nulls[i] = true
	}
	return c
}
func (c *TextColumn) Name() string             { return c.name }
func (c *TextColumn) Kind() Kind               { return c.kind }
func (c *TextColumn) Len() int                 { return len(c.data) }
func (c *TextColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *TextColumn) SetNull(i int)            { c.data[i] = ""; c.nulls[i] = true }
func (c *TextColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *TextColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *TextColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *TextColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *TextColumn) Format(i int) string      { return c.data[i] }

func (c *TextColumn) keep(rows []int) {
	data := make([]string, len(rows))
	nulls := make([]bool, len(rows))
	for i, r := range rows {
		data[i], nulls[i] = c.data[r], c.nulls[r]
	}
	c.data, c.nulls = data, nulls
}

func (c *TextColumn) clone() Column {
	return &TextColumn{
		name:  c.name,
		kind:  c.kind,
		data:  append([]string(nil), c.data...),
		nulls: append([]bool(nil), c.nulls...),
	}
}

// FormatNumber renders v in plain decimal notation with the fewest digits
// that parse back to the same float64.
func FormatNumber(v float64) string {
	if v == 0 {
		// keeps -0 and 0 identical in every encoder
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table is a columnar container for tabular data. All columns always hold
// the same number of rows.
type Table struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

// New returns an empty table for s. It panics if a column has a kind other
// than KindNumeric, KindText or KindUnknown; use NewChecked for schemas
// built from untrusted input.
func New(s Schema) *Table {
	t, err := NewChecked(s)
	if err != nil {
		panic(err)
	}
	return t
}

// NewChecked is New with an error instead of a panic.
func NewChecked(s Schema) (*Table, error) {
	t := &Table{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		switch cs.Type {
		case KindNumeric:
			t.cols[i] = NewNumericColumn(cs.Name, 0)
		case KindText, KindUnknown:
			t.cols[i] = newStringColumn(cs.Name, cs.Type, 0)
		default:
			return nil, fmt.Errorf("column %q: invalid kind %s", cs.Name, cs.Type)
		}
		t.index[cs.Name] = i
	}
	return t, nil
}

func (t *Table) Schema() Schema { return t.schema }
func (t *Table) Rows() int      { return t.nrows }
func (t *Table) Cols() int      { return len(t.cols) }

// Column returns the i-th column.
func (t *Table) Column(i int) Column { return t.cols[i] }

func (t *Table) ColumnByName(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// AppendNullRow appends a row with all-missing values.
func (t *Table) AppendNullRow() {
	for _, c := range t.cols {
		c.AppendNull()
	}
	t.nrows++
}

// SetCell sets a single cell value by name (row must exist). A nil value
// marks the cell missing.
func (t *Table) SetCell(row int, name string, v any) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	switch col := t.cols[i].(type) {
	case *NumericColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) {
				col.SetNull(row)
				return nil
			}
			col.Set(row, x)
		case float32:
			col.Set(row, float64(x))
		case int:
			col.Set(row, float64(x))
		case int64:
			if lit := strconv.FormatInt(x, 10); FormatNumber(float64(x)) != lit {
				col.SetExact(row, float64(x), lit)
			} else {
				col.Set(row, float64(x))
			}
		default:
			return fmt.Errorf("column %s expects a number", name)
		}
	case *TextColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}

// Record renders row r as strings, "" for missing cells.
func (t *Table) Record(r int) []string {
	rec := make([]string, len(t.cols))
	for c, col := range t.cols {
		rec[c] = col.Format(r)
	}
	return rec
}

// Records renders up to limit rows; limit <= 0 renders all of them.
func (t *Table) Records(limit int) [][]string {
	n := t.nrows
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		out[r] = t.Record(r)
	}
	return out
}

// KeepRows retains the given rows, in the given order.
func (t *Table) KeepRows(rows []int) {
	for _, c := range t.cols {
		c.keep(rows)
	}
	t.nrows = len(rows)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		schema: Schema{Columns: append([]ColumnSchema(nil), t.schema.Columns...)},
		cols:   make([]Column, len(t.cols)),
		index:  make(map[string]int, len(t.index)),
		nrows:  t.nrows,
	}
	for i, c := range t.cols {
		out.cols[i] = c.clone()
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

// Equal reports whether both tables have the same schema and cells.
func (t *Table) Equal(o *Table) bool {
	if t.nrows != o.nrows || len(t.cols) != len(o.cols) {
		return false
	}
	for i, cs := range t.schema.Columns {
		if o.schema.Columns[i] != cs {
			return false
		}
	}
	for c := range t.cols {
		a, b := t.cols[c], o.cols[c]
		for r := 0; r < t.nrows; r++ {
			if a.IsNull(r) != b.IsNull(r) || a.Format(r) != b.Format(r) {
				return false
			}
		}
	}
	return true
}
