package chart

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// ASCIIRenderer draws a series as a terminal line chart, one column per
// point. asciigraph's Width option resamples the data, so it is not used.
type ASCIIRenderer struct {
	Height int // plot rows
}

// NewASCIIRenderer creates a renderer with the given plot height.
func NewASCIIRenderer(height int) *ASCIIRenderer {
	if height <= 0 {
		height = 10
	}
	return &ASCIIRenderer{Height: height}
}

// Render plots s with the score axis clamped to [YMin, YMax] and a label
// row of first, middle, and last dates underneath.
func (r *ASCIIRenderer) Render(s Series) (Widget, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySeries
	}

	opts := []asciigraph.Option{
		asciigraph.Height(r.Height),
		asciigraph.LowerBound(YMin),
		asciigraph.UpperBound(YMax),
		asciigraph.Precision(0),
		asciigraph.Caption("감성점수"),
	}

	data := make([]float64, len(s.Scores))
	for i, v := range s.Scores {
		data[i] = clamp(v)
	}
	plot := asciigraph.Plot(data, opts...)

	return &textWidget{text: plot + "\n" + labelRow(s.Labels, plotWidth(plot))}, nil
}

func clamp(v float64) float64 {
	if v < YMin {
		return YMin
	}
	if v > YMax {
		return YMax
	}
	return v
}

func plotWidth(plot string) int {
	w := 0
	for _, line := range strings.Split(plot, "\n") {
		if n := len([]rune(line)); n > w {
			w = n
		}
	}
	return w
}

// labelRow spreads the first, middle, and last label over width columns.
func labelRow(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first := labels[0]
	last := labels[len(labels)-1]
	if len(labels) == 1 {
		return first
	}
	mid := labels[len(labels)/2]

	gap := width - len(first) - len(mid) - len(last)
	if gap < 2 {
		return first + " " + last
	}
	left := gap / 2
	return first + strings.Repeat(" ", left) + mid + strings.Repeat(" ", gap-left) + last
}

type textWidget struct {
	text      string
	destroyed bool
}

func (w *textWidget) View() string {
	if w.destroyed {
		return ""
	}
	return w.text
}

func (w *textWidget) Destroy() {
	w.destroyed = true
	w.text = ""
}
