package standardize

import (
	"context"
	"testing"

	"github.com/wdm0006/datasweeper/pkg/table"
)

func TestTrimSpace(t *testing.T) {
	tb, err := table.FromRecords([]string{"s", "n", "t"}, [][]string{
		{"  Foo  ", "1", " x"},
		{"BAR", "2", "y "},
		{"   ", "3", ""},
	}, 2, table.InferOptions{})
	if err != nil {
		t.Fatal(err)
	}

	one := &TrimSpace{Column: "s"}
	if _, err := one.Apply(context.Background(), tb); err != nil {
		t.Fatal(err)
	}
	if one.Changed != 2 {
		t.Fatalf("expected 2 changes, got %d", one.Changed)
	}
	c := tb.Column(0).(*table.TextColumn)
	if v, _ := c.Get(0); v != "Foo" {
		t.Fatalf("trim failed, got %q", v)
	}
	if !c.IsNull(2) {
		t.Fatal("blank cell should become missing")
	}
	if v, _ := tb.Column(2).(*table.TextColumn).Get(0); v != " x" {
		t.Fatalf("other column touched: %q", v)
	}

	all := &TrimSpace{}
	if _, err := all.Apply(context.Background(), tb); err != nil {
		t.Fatal(err)
	}
	if all.Changed != 2 {
		t.Fatalf("expected 2 changes, got %d", all.Changed)
	}

	if _, err := (&TrimSpace{Column: "nope"}).Apply(context.Background(), tb); err == nil {
		t.Fatal("expected unknown column error")
	}
}
