package chart

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"goksori/pkg/goksori"
)

var sample = []goksori.ScorePoint{
	{Date: "2024-01-01", Score: 55.2},
	{Date: "2024-01-02", Score: 61.0},
}

func TestFromHistoryLabels(t *testing.T) {
	s := FromHistory(sample)
	if want := []string{"01-01", "01-02"}; !reflect.DeepEqual(s.Labels, want) {
		t.Errorf("Labels = %v, want %v", s.Labels, want)
	}
	if want := []float64{55.2, 61.0}; !reflect.DeepEqual(s.Scores, want) {
		t.Errorf("Scores = %v, want %v", s.Scores, want)
	}
	if got := monthDay("bad"); got != "bad" {
		t.Errorf("monthDay(bad) = %q", got)
	}
}

func TestChartJSAxisFixed(t *testing.T) {
	for _, scores := range [][]float64{{55.2, 61.0}, {-20, 140}, {99.9}} {
		pts := make([]goksori.ScorePoint, len(scores))
		for i, v := range scores {
			pts[i] = goksori.ScorePoint{Date: "2024-01-01", Score: v}
		}
		b, err := ChartJS(FromHistory(pts)).JSON()
		if err != nil {
			t.Fatalf("JSON: %v", err)
		}
		var cfg struct {
			Options struct {
				Scales struct {
					Y struct{ Min, Max float64 }
				}
			}
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if cfg.Options.Scales.Y.Min != 0 || cfg.Options.Scales.Y.Max != 100 {
			t.Errorf("y axis = [%v, %v], want [0, 100]", cfg.Options.Scales.Y.Min, cfg.Options.Scales.Y.Max)
		}
	}
}

func TestASCIIRendererClamps(t *testing.T) {
	r := NewASCIIRenderer(5)
	w, err := r.Render(Series{Labels: []string{"01-01", "01-02", "01-03"}, Scores: []float64{-30, 50, 250}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	view := w.View()
	if !strings.Contains(view, "100") || !strings.Contains(view, " 0 ") && !strings.Contains(view, " 0┤") {
		t.Errorf("axis labels missing 0/100:\n%s", view)
	}
	if !strings.Contains(view, "01-01") || !strings.Contains(view, "01-03") {
		t.Errorf("date labels missing:\n%s", view)
	}

	w.Destroy()
	if w.View() != "" {
		t.Error("destroyed widget still renders")
	}

	if _, err := r.Render(Series{}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Render(empty) error = %v, want ErrEmptySeries", err)
	}
}

type countingWidget struct {
	destroys *int
	dead     bool
	t        *testing.T
}

func (w *countingWidget) View() string { return "w" }

func (w *countingWidget) Destroy() {
	if w.dead {
		w.t.Fatal("widget destroyed twice")
	}
	w.dead = true
	*w.destroys++
}

type countingRenderer struct {
	destroys int
	created  int
	t        *testing.T
}

func (r *countingRenderer) Render(s Series) (Widget, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySeries
	}
	r.created++
	return &countingWidget{destroys: &r.destroys, t: r.t}, nil
}

func TestSlotDestroyBeforeReplace(t *testing.T) {
	r := &countingRenderer{t: t}
	var sl Slot

	sl.Release() // empty slot
	if err := sl.Draw(r, FromHistory(sample)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := sl.Draw(r, FromHistory(sample)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if r.created != 2 || r.destroys != 1 {
		t.Errorf("created = %d destroys = %d, want 2 1", r.created, r.destroys)
	}

	sl.Release()
	sl.Release()
	if r.destroys != 2 || !sl.Empty() {
		t.Errorf("destroys = %d empty = %v after release, want 2 true", r.destroys, sl.Empty())
	}

	// Re-create after release and fail a draw: slot ends empty.
	if err := sl.Draw(r, FromHistory(sample)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := sl.Draw(r, Series{}); err == nil {
		t.Fatal("Draw(empty) should fail")
	}
	if !sl.Empty() || r.destroys != 3 {
		t.Errorf("empty = %v destroys = %d after failed draw, want true 3", sl.Empty(), r.destroys)
	}
}
