// Package chart turns a score history into a line chart widget and owns the
// widget's lifetime.
package chart

import (
	"errors"

	"goksori/pkg/goksori"
)

// Score axis bounds. The axis never follows the data range.
const (
	YMin = 0.0
	YMax = 100.0
)

// Series is one time series ready for a chart library.
type Series struct {
	Labels []string  // MM-DD
	Scores []float64 // raw scores, no smoothing
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Scores) }

// FromHistory converts score history to a Series, truncating dates to
// month-day.
func FromHistory(points []goksori.ScorePoint) Series {
	s := Series{
		Labels: make([]string, len(points)),
		Scores: make([]float64, len(points)),
	}
	for i, p := range points {
		s.Labels[i] = monthDay(p.Date)
		s.Scores[i] = p.Score
	}
	return s
}

// monthDay returns the MM-DD part of a YYYY-MM-DD date. Anything shorter is
// returned unchanged.
func monthDay(date string) string {
	if len(date) >= 10 && date[4] == '-' {
		return date[5:10]
	}
	return date
}

// ErrEmptySeries is returned by renderers given no points.
var ErrEmptySeries = errors.New("chart: empty series")

// Widget is a rendered chart instance. Destroy releases it; a destroyed
// widget must not be used again.
type Widget interface {
	View() string
	Destroy()
}

// Renderer creates a new widget per series. Widgets are never updated in
// place with a different dataset.
type Renderer interface {
	Render(s Series) (Widget, error)
}

// Slot holds at most one widget and destroys it before holding another.
type Slot struct {
	w Widget
}

// Replace destroys the held widget, if any, and holds w.
func (sl *Slot) Replace(w Widget) {
	sl.Release()
	sl.w = w
}

// Release destroys and forgets the held widget. Calling it on an empty
// slot does nothing.
func (sl *Slot) Release() {
	if sl.w == nil {
		return
	}
	w := sl.w
	sl.w = nil
	w.Destroy()
}

// Widget returns the held widget, or nil.
func (sl *Slot) Widget() Widget { return sl.w }

// Empty reports whether the slot holds no widget.
func (sl *Slot) Empty() bool { return sl.w == nil }

// Draw renders s with r and stores the result in the slot, destroying the
// previous widget first. On error the slot is left empty.
func (sl *Slot) Draw(r Renderer, s Series) error {
	sl.Release()
	w, err := r.Render(s)
	if err != nil {
		return err
	}
	sl.w = w
	return nil
}
