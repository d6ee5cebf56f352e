package dedupe

import (
	"context"
	"testing"

	"github.com/wdm0006/datasweeper/pkg/table"
)

func build(t *testing.T, rows [][]string) *table.Table {
	t.Helper()
	tb, err := table.FromRecords([]string{"id", "value", "label"}, rows, 2, table.InferOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestRemoveDuplicatesKeepsFirst(t *testing.T) {
	tb := build(t, [][]string{
		{"1", "20", "a"},
		{"2", "", "b"},
		{"1", "20", "a"},
		{"2", "", "b"},
		{"2", "0", "b"},
		{"3", "20", "a"},
	})
	tf := &RemoveDuplicates{}
	out, err := tf.Apply(context.Background(), tb)
	if err != nil {
		t.Fatal(err)
	}
	if tf.Removed != 2 {
		t.Fatalf("expected 2 removed, got %d", tf.Removed)
	}
	got := out.Records(0)
	want := [][]string{{"1", "20", "a"}, {"2", "", "b"}, {"2", "0", "b"}, {"3", "20", "a"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), got)
	}
	for i := range want {
		for c := range want[i] {
			if got[i][c] != want[i][c] {
				t.Fatalf("row %d: expected %v, got %v", i, want[i], got[i])
			}
		}
	}
	// "" (missing) and "0" differ
	if !out.Column(1).IsNull(1) || out.Column(1).IsNull(2) {
		t.Fatal("missing-ness not preserved")
	}
}

func TestRemoveDuplicatesIdempotent(t *testing.T) {
	tb := build(t, [][]string{{"1", "1", "x"}, {"1", "1", "x"}, {"1", "", "x"}, {"1", "", "x"}})
	if n := Rows(tb); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	before := tb.Clone()
	if n := Rows(tb); n != 0 {
		t.Fatalf("second pass removed %d rows", n)
	}
	if !before.Equal(tb) {
		t.Fatal("second pass changed the table")
	}
}

func TestRemoveDuplicatesSeparatorSafe(t *testing.T) {
	tb, err := table.FromRecords([]string{"a", "b"}, [][]string{{"x", "yz"}, {"xy", "z"}}, 2, table.InferOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if n := Rows(tb); n != 0 {
		t.Fatalf("distinct rows merged: %v", tb.Records(0))
	}
}

func BenchmarkRows(b *testing.B) {
	rows := make([][]string, 10000)
	for i := range rows {
		rows[i] = []string{string(rune('a' + i%20)), "1", "x"}
	}
	for n := 0; n < b.N; n++ {
		tb, _ := table.FromRecords([]string{"id", "value", "label"}, rows, 2, table.InferOptions{})
		Rows(tb)
	}
}
