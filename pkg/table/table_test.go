package table

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestKeepRowsPreservesAlignment(t *testing.T) {
	tb := makeTable(5)
	tb.KeepRows([]int{0, 3})
	if tb.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", tb.Rows())
	}
	for i := 0; i < tb.Cols(); i++ {
		if got := tb.Column(i).Len(); got != 2 {
			t.Fatalf("column %d has %d rows", i, got)
		}
	}
	if got := tb.Record(1); got[0] != "3" || got[1] != "3" || got[2] != "x" {
		t.Fatalf("unexpected record %v", got)
	}
}

func TestSetCellNilMarksMissing(t *testing.T) {
	tb := makeTable(1)
	if err := tb.SetCell(0, "a", nil); err != nil {
		t.Fatal(err)
	}
	col, _ := tb.ColumnByName("a")
	if !col.IsNull(0) {
		t.Fatal("expected missing cell")
	}
	if err := tb.SetCell(0, "a", "text"); err == nil {
		t.Fatal("expected type error")
	}
	if err := tb.SetCell(0, "nope", 1.0); err == nil {
		t.Fatal("expected unknown column error")
	}
}

func TestCloneIsDeep(t *testing.T) {
	tb := makeTable(2)
	cp := tb.Clone()
	_ = cp.SetCell(0, "s", "changed")
	if !tb.Equal(makeTable(2)) {
		t.Fatal("clone mutated the original")
	}
	if tb.Equal(cp) {
		t.Fatal("expected tables to differ")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		20:        "20",
		20.5:      "20.5",
		-0.0:      "0",
		0.1:       "0.1",
		1234567:   "1234567",
		2500000:   "2500000",
		1e21:      "1000000000000000000000",
		-987654.5: "-987654.5",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
		if x, ok := ParseNumber(want); !ok || x != in {
			t.Fatalf("ParseNumber(%q) = %v, %v", want, x, ok)
		}
	}
}

func TestWideIntegersKeepTheirDigits(t *testing.T) {
	tb, err := FromRecords([]string{"id", "amount"}, [][]string{
		{"1234567", "2500000"},
		{"9007199254740993", "20"},
		{"+0009007199254740995", "-9007199254740993"},
	}, 2, InferOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"1234567", "2500000"},
		{"9007199254740993", "20"},
		{"9007199254740995", "-9007199254740993"},
	}
	if got := tb.Records(0); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected records %v", got)
	}

	cp := tb.Clone()
	cp.KeepRows([]int{1})
	if got := cp.Record(0)[0]; got != "9007199254740993" {
		t.Fatalf("KeepRows lost the literal: %q", got)
	}

	col, _ := tb.ColumnByName("id")
	col.(*NumericColumn).Set(1, 5)
	if got := tb.Record(1)[0]; got != "5" {
		t.Fatalf("Set should replace the literal, got %q", got)
	}
	if got := cp.Record(0)[0]; got != "9007199254740993" {
		t.Fatalf("clone shares literals with the original: %q", got)
	}
}

func TestSetCellWideInt64(t *testing.T) {
	tb := New(Schema{Columns: []ColumnSchema{{Name: "n", Type: KindNumeric}}})
	tb.AppendNullRow()
	if err := tb.SetCell(0, "n", int64(9007199254740993)); err != nil {
		t.Fatal(err)
	}
	if got := tb.Record(0)[0]; got != "9007199254740993" {
		t.Fatalf("unexpected cell %q", got)
	}
}

func TestNewRejectsInvalidKind(t *testing.T) {
	s := Schema{Columns: []ColumnSchema{{Name: "a", Type: KindNumeric}, {Name: "b"}}}
	if _, err := NewChecked(s); err == nil {
		t.Fatal("expected an error for the zero kind")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected New to panic")
		}
	}()
	New(s)
}

type failing struct{}

func (failing) Name() string { return "boom" }
func (failing) Apply(ctx context.Context, t *Table) (*Table, error) {
	return nil, errors.New("exploded")
}

func TestPipelineWrapsStepErrors(t *testing.T) {
	p := NewPipeline().Add(&noopTransform{}).Add(failing{})
	_, err := p.Run(context.Background(), makeTable(1))
	if err == nil || err.Error() != "boom: exploded" {
		t.Fatalf("unexpected error %v", err)
	}
	if got := p.Steps(); len(got) != 2 || got[1] != "boom" {
		t.Fatalf("unexpected steps %v", got)
	}
}
