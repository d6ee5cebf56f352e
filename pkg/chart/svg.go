package chart

import (
	"io"
	"strconv"

	gomponents "maragu.dev/gomponents"
)

const (
	height    = 320
	marginX   = 48
	marginTop = 36
	marginBot = 32
	barWidth  = 12
	groupGap  = 8
)

var colors = [2]string{"#4e79a7", "#f28e2b"}

// RenderSVG writes c as a grouped bar chart: one group per row index and
// one bar per series.
func RenderSVG(w io.Writer, c Chart) error {
	return svg(c).Render(w)
}

func svg(c Chart) gomponents.Node {
	groupW := 2*barWidth + groupGap
	plotW := len(c.Index) * groupW
	if plotW < 2*groupW {
		plotW = 2 * groupW
	}
	width := plotW + 2*marginX
	plotH := float64(height - marginTop - marginBot)

	lo, hi := c.Bounds()
	span := hi - lo
	if span == 0 {
		span = 1
	}
	y := func(v float64) float64 { return marginTop + (hi-v)/span*plotH }
	zero := y(0)

	nodes := []gomponents.Node{
		gomponents.Attr("xmlns", "http://www.w3.org/2000/svg"),
		gomponents.Attr("width", strconv.Itoa(width)),
		gomponents.Attr("height", strconv.Itoa(height)),
		gomponents.Attr("viewBox", "0 0 "+strconv.Itoa(width)+" "+strconv.Itoa(height)),
		gomponents.Attr("font-family", "sans-serif"),
		gomponents.Attr("font-size", "10"),
		line(marginX, zero, float64(marginX+plotW), zero),
		line(marginX, marginTop, marginX, marginTop+plotH),
		label(4, marginTop+4, num(hi)),
		label(4, marginTop+plotH, num(lo)),
	}
	for s, series := range c.Series {
		nodes = append(nodes,
			gomponents.El("rect",
				gomponents.Attr("x", strconv.Itoa(marginX+s*120)),
				gomponents.Attr("y", "8"),
				gomponents.Attr("width", "10"),
				gomponents.Attr("height", "10"),
				gomponents.Attr("fill", colors[s]),
			),
			label(float64(marginX+s*120+14), 17, series.Name),
		)
	}
	step := 1
	if len(c.Index) > 40 {
		step = len(c.Index) / 20
	}
	for i, idx := range c.Index {
		x0 := marginX + i*groupW + groupGap/2
		for s, series := range c.Series {
			v := series.Values[i]
			if v == nil {
				continue
			}
			top, bottom := y(*v), zero
			if top > bottom {
				top, bottom = bottom, top
			}
			nodes = append(nodes, gomponents.El("rect",
				gomponents.Attr("x", strconv.Itoa(x0+s*barWidth)),
				gomponents.Attr("y", num(top)),
				gomponents.Attr("width", strconv.Itoa(barWidth)),
				gomponents.Attr("height", num(bottom-top)),
				gomponents.Attr("fill", colors[s]),
				gomponents.El("title", gomponents.Text(series.Name+" ["+strconv.Itoa(idx)+"]: "+num(*v))),
			))
		}
		if i%step == 0 {
			nodes = append(nodes, label(float64(x0), float64(height-marginBot+14), strconv.Itoa(idx)))
		}
	}
	return gomponents.El("svg", nodes...)
}

func line(x1, y1, x2, y2 float64) gomponents.Node {
	return gomponents.El("line",
		gomponents.Attr("x1", num(x1)),
		gomponents.Attr("y1", num(y1)),
		gomponents.Attr("x2", num(x2)),
		gomponents.Attr("y2", num(y2)),
		gomponents.Attr("stroke", "#333"),
	)
}

func label(x, y float64, s string) gomponents.Node {
	return gomponents.El("text",
		gomponents.Attr("x", num(x)),
		gomponents.Attr("y", num(y)),
		gomponents.Text(s),
	)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
