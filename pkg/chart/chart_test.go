package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/wdm0006/datasweeper/pkg/table"
)

func TestBuildPicksFirstTwoNumeric(t *testing.T) {
	tb, err := table.FromRecords(
		[]string{"name", "a", "note", "b", "c"},
		[][]string{{"x", "1", "n", "-2", "9"}, {"y", "", "m", "4", "9"}},
		2, table.InferOptions{})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Build(tb)
	if err != nil {
		t.Fatal(err)
	}
	if c.Series[0].Name != "a" || c.Series[1].Name != "b" {
		t.Fatalf("unexpected series %s, %s", c.Series[0].Name, c.Series[1].Name)
	}
	if len(c.Index) != 2 || c.Index[1] != 1 {
		t.Fatalf("unexpected index %v", c.Index)
	}
	if c.Series[0].Values[1] != nil {
		t.Fatal("missing cell should stay missing")
	}
	if lo, hi := c.Bounds(); lo != -2 || hi != 4 {
		t.Fatalf("unexpected bounds %v %v", lo, hi)
	}
}

func TestBuildInsufficientNumeric(t *testing.T) {
	for _, header := range [][]string{{"name", "note"}, {"name", "a"}} {
		tb, err := table.FromRecords(header, [][]string{{"x", "1"}}, 2, table.InferOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Build(tb); !errors.Is(err, ErrInsufficientNumeric) {
			t.Fatalf("%v: expected insufficient numeric, got %v", header, err)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	tb, err := table.FromRecords([]string{"a", "b"}, [][]string{{"1", "2"}, {"3", ""}}, 2, table.InferOptions{})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Build(tb)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RenderSVG(&buf, c); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("not an svg document: %.60s", out)
	}
	// three bars plus two legend swatches
	if n := strings.Count(out, "<rect"); n != 5 {
		t.Fatalf("expected 5 rects, got %d", n)
	}
}
