package impute

import (
	"context"
	"testing"

	"github.com/wdm0006/datasweeper/pkg/table"
)

func makeLargeTable(n int) *table.Table {
	tb := table.New(table.Schema{Columns: []table.ColumnSchema{{Name: "x", Type: table.KindNumeric}}})
	for i := 0; i < n; i++ {
		tb.AppendNullRow()
	}
	c := tb.Column(0).(*table.NumericColumn)
	for i := 0; i < n; i += 2 {
		c.Set(i, float64(i%10))
	}
	return tb
}

func BenchmarkFillMissingMean(b *testing.B) {
	base := makeLargeTable(10000)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		tb := base.Clone()
		if _, err := (&FillMissing{}).Apply(context.Background(), tb); err != nil {
			b.Fatal(err)
		}
	}
}
