package profile

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/wdm0006/datasweeper/pkg/table"
)

func TestProfile(t *testing.T) {
	tb, err := table.FromRecords([]string{"x", "s", "u"}, [][]string{
		{"1", "a", ""},
		{"", "b", ""},
		{"5", "a", ""},
	}, 2, table.InferOptions{})
	if err != nil {
		t.Fatal(err)
	}
	p := Of(tb, 1)
	if p.Rows != 3 || len(p.Columns) != 3 {
		t.Fatalf("unexpected profile %+v", p)
	}
	x := p.Columns[0]
	if x.Count != 2 || x.Missing != 1 || x.Num.Min != 1 || x.Num.Max != 5 || x.Num.Mean != 3 {
		t.Fatalf("unexpected numeric stats %+v %+v", x, x.Num)
	}
	s := p.Columns[1]
	if s.Text.Distinct != 2 || len(s.Text.Top) != 1 || s.Text.Top[0] != (Freq{Value: "a", Count: 2}) {
		t.Fatalf("unexpected text stats %+v", s.Text)
	}
	if u := p.Columns[2]; u.Missing != 3 || u.Num != nil || u.Text != nil {
		t.Fatalf("unexpected unknown stats %+v", u)
	}
	if _, err := json.Marshal(p); err != nil {
		t.Fatal(err)
	}
	if txt := p.Text(); !strings.Contains(txt, "- x (numeric): count=2 missing=1") {
		t.Fatalf("unexpected text report:\n%s", txt)
	}
}

func TestProfileAllMissingNumericMarshals(t *testing.T) {
	tb := table.New(table.Schema{Columns: []table.ColumnSchema{{Name: "x", Type: table.KindNumeric}}})
	tb.AppendNullRow()
	if _, err := json.Marshal(Of(tb, 3)); err != nil {
		t.Fatal(err)
	}
}
