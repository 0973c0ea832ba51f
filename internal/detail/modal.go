// Package detail implements the stock detail view controller: a small state
// machine (closed, loading, open) with tabs and a lazily drawn chart.
package detail

import (
	"goksori/internal/chart"
	"goksori/internal/dashboard"
	"goksori/pkg/goksori"
)

// Phase is the lifecycle state of the detail view.
type Phase int

const (
	Closed Phase = iota
	Loading
	Open
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Open:
		return "open"
	default:
		return "closed"
	}
}

// Tab is a page of the open detail view.
type Tab int

const (
	TabOverview Tab = iota
	TabComments
	TabChart
	TabCount
)

// Label returns the tab title.
func (t Tab) Label() string {
	switch t {
	case TabComments:
		return "댓글"
	case TabChart:
		return "점수 추이"
	default:
		return "개요"
	}
}

// Placeholder glyphs shown while loading.
const (
	LoadingEmoji = "⏳"
	LoadingScore = "-"
)

// Ticket identifies one Open call. Results carrying an older ticket belong
// to a previous session and are ignored.
type Ticket uint64

// ChartAction tells the caller what selecting the chart tab requires.
type ChartAction int

const (
	// ChartNone: nothing to do, the chart is drawn or not selected.
	ChartNone ChartAction = iota
	// ChartDraw: history is cached, draw now.
	ChartDraw
	// ChartFetchHistory: fetch history, then call SetHistory and DrawChart.
	ChartFetchHistory
)

// Modal is the detail view controller. One instance per session.
type Modal struct {
	phase  Phase
	ticket Ticket

	code string
	name string

	detail  *goksori.StockDetail
	history []goksori.ScorePoint
	tab     Tab

	renderer chart.Renderer
	slot     chart.Slot
	drawn    bool // chart drawn in this session
	fetching bool // history fetch in flight
	err      error
}

// New creates a closed Modal drawing charts with r.
func New(r chart.Renderer) *Modal {
	return &Modal{renderer: r}
}

func (m *Modal) Phase() Phase { return m.phase }
func (m *Modal) Code() string { return m.code }
func (m *Modal) Tab() Tab { return m.tab }
func (m *Modal) Detail() *goksori.StockDetail { return m.detail }
func (m *Modal) History() []goksori.ScorePoint { return m.history }
func (m *Modal) Err() error { return m.err }
func (m *Modal) Ticket() Ticket { return m.ticket }

// Chart returns the drawn chart widget, or nil.
func (m *Modal) Chart() chart.Widget { return m.slot.Widget() }

// Open starts a new session for code and moves to Loading. A session that
// is already showing is replaced.
func (m *Modal) Open(code, name string) Ticket {
	m.reset()
	m.ticket++
	m.phase = Loading
	m.code = code
	m.name = name
	return m.ticket
}

// Loaded populates the view from d and moves to Open. It returns false when
// t belongs to an earlier session or the modal was closed.
func (m *Modal) Loaded(t Ticket, d *goksori.StockDetail) bool {
	if t != m.ticket || m.phase == Closed || d == nil {
		return false
	}
	m.detail = d
	m.name = d.Name
	if len(d.ScoreHistory) > 0 {
		m.history = d.ScoreHistory
	}
	m.err = nil
	m.phase = Open
	return true
}

// Failed records a detail load failure. The view stays in Loading with its
// placeholders; the caller shows a toast.
func (m *Modal) Failed(t Ticket, err error) bool {
	if t != m.ticket || m.phase == Closed {
		return false
	}
	m.err = err
	return true
}

// Close ends the session from any phase, releasing the chart and clearing
// the detail record.
func (m *Modal) Close() {
	m.reset()
	m.phase = Closed
}

func (m *Modal) reset() {
	m.slot.Release()
	m.detail = nil
	m.history = nil
	m.code = ""
	m.name = ""
	m.tab = TabOverview
	m.drawn = false
	m.fetching = false
	m.err = nil
}

// SelectTab switches tabs and reports what the chart tab needs. Tabs only
// switch while Open.
func (m *Modal) SelectTab(t Tab) ChartAction {
	if m.phase != Open || t < 0 || t >= TabCount {
		return ChartNone
	}
	m.tab = t
	if t != TabChart || m.drawn {
		return ChartNone
	}
	if m.history != nil {
		return ChartDraw
	}
	if m.fetching {
		return ChartNone
	}
	m.fetching = true
	return ChartFetchHistory
}

// NextTab cycles to the following tab.
func (m *Modal) NextTab() ChartAction {
	return m.SelectTab((m.tab + 1) % TabCount)
}

// SetHistory stores fetched history for the session of t.
func (m *Modal) SetHistory(t Ticket, h []goksori.ScorePoint) bool {
	if t != m.ticket || m.phase != Open {
		return false
	}
	m.fetching = false
	if h == nil {
		h = []goksori.ScorePoint{}
	}
	m.history = h
	return true
}

// HistoryFailed clears the in-flight flag so a later tab switch can retry.
func (m *Modal) HistoryFailed(t Ticket) {
	if t == m.ticket {
		m.fetching = false
	}
}

// DrawChart renders the cached history into the chart slot once per
// session. The previous widget is destroyed first.
func (m *Modal) DrawChart() error {
	if m.phase != Open || m.drawn || m.history == nil || m.renderer == nil {
		return nil
	}
	if err := m.slot.Draw(m.renderer, chart.FromHistory(m.history)); err != nil {
		return err
	}
	m.drawn = true
	return nil
}

// Header is the view header: populated when Open, placeholders otherwise.
type Header struct {
	Name  string
	Code  string
	Emoji string
	Score string
	Band  dashboard.Band
}

// Header returns the header fields for the current phase.
func (m *Modal) Header() Header {
	if m.phase != Open || m.detail == nil {
		name := m.name
		if name == "" {
			name = m.code
		}
		return Header{Name: name, Code: m.code, Emoji: LoadingEmoji, Score: LoadingScore, Band: dashboard.BandMid}
	}
	d := m.detail
	return Header{
		Name:  d.Name,
		Code:  "(" + d.Code + ")",
		Emoji: d.Emoji,
		Score: dashboard.FormatScore(d.Score),
		Band:  dashboard.ScoreBand(d.Score),
	}
}

// Ratios returns the comment sentiment bar widths of the open record.
func (m *Modal) Ratios() dashboard.Ratios {
	return dashboard.DetailRatios(m.detail)
}
