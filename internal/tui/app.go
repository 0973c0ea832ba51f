// Package tui is the terminal dashboard: the stock list with its stats bar
// and pager, the detail view, share actions, and the refresh timers.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"goksori/internal/chart"
	"goksori/internal/config"
	"goksori/internal/dashboard"
	"goksori/internal/detail"
	"goksori/internal/schedule"
	"goksori/internal/view"
	"goksori/pkg/goksori"
)

// API is the subset of the backend client the dashboard uses.
type API interface {
	ListStocks(ctx context.Context, p goksori.ListParams) (*goksori.StockPage, error)
	GetStock(ctx context.Context, code string) (*goksori.StockDetail, error)
	GetScoreHistory(ctx context.Context, code string, days int) ([]goksori.ScorePoint, error)
}

// Sharer performs share actions and returns the toast to show.
type Sharer interface {
	Init(ctx context.Context) bool
	ShareStock(ctx context.Context, code string) (string, error)
	ShareLink(code string) (string, error)
}

// Options holds the dependencies of the dashboard.
type Options struct {
	API    API
	Share  Sharer
	Open   func(url string) error // browser opener; nil disables external links
	Config *config.Config
	Logger *slog.Logger
	Now    func() time.Time
}

const chartHeight = 12

// Model is the bubbletea model of the dashboard.
type Model struct {
	api    API
	share  Sharer
	open   func(string) error
	cfg    *config.Config
	clock  *schedule.RefreshClock
	logger *slog.Logger
	now    func() time.Time

	state *view.State
	modal *detail.Modal

	cursor     int
	searching  bool
	search     textinput.Model
	debounceID int
	spinner    spinner.Model

	viewport      viewport.Model
	ready         bool
	width, height int

	countdown string
	updatedAt time.Time

	toast   string
	toastID int
}

// New creates the dashboard model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "종목명 또는 코드 검색"
	ti.Prompt = searchStyle.Render("/ ")
	ti.CharLimit = 40

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	clock := schedule.NewRefreshClock(cfg.Refresh.BoundaryHours, time.Local)
	return Model{
		api:       opts.API,
		share:     opts.Share,
		open:      opts.Open,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		now:       now,
		state:     view.New(cfg.View.PageSize, dashboard.ParseSortMode(cfg.View.DefaultSort)),
		modal:     detail.New(chart.NewASCIIRenderer(chartHeight)),
		search:    ti,
		spinner:   sp,
		countdown: clock.Countdown(now()),
	}
}

// State exposes the list state for callers that render it elsewhere.
func (m Model) State() *view.State { return m.state }

// Modal exposes the detail view controller.
func (m Model) Modal() *detail.Modal { return m.modal }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadStocksCmd(m.state.Request()),
		countdownTickCmd(m.cfg.Refresh.CountdownInterval),
		reloadTickCmd(m.cfg.Refresh.ReloadInterval),
		m.spinner.Tick,
	}
	if m.share != nil {
		sh := m.share
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return shareInitMsg{ready: sh.Init(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// Commands.

func countdownTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

func reloadTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return reloadTickMsg(t)
	})
}

func debounceCmd(id int, term string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{id: id, term: term}
	})
}

func toastCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m Model) loadStocksCmd(req view.Request) tea.Cmd {
	api := m.api
	timeout := m.cfg.API.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := api.ListStocks(ctx, req.Params())
		return stocksLoadedMsg{req: req, page: page, err: err}
	}
}

func (m Model) loadDetailCmd(t detail.Ticket, code string) tea.Cmd {
	api := m.api
	timeout := m.cfg.API.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		d, err := api.GetStock(ctx, code)
		return detailLoadedMsg{ticket: t, detail: d, err: err}
	}
}

func (m Model) loadHistoryCmd(t detail.Ticket, code string) tea.Cmd {
	api := m.api
	timeout := m.cfg.API.Timeout
	days := m.cfg.View.HistoryDays
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		h, err := api.GetScoreHistory(ctx, code, days)
		return historyLoadedMsg{ticket: t, history: h, err: err}
	}
}

func (m Model) shareStockCmd(code string) tea.Cmd {
	if m.share == nil {
		return nil
	}
	sh := m.share
	timeout := m.cfg.API.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := sh.ShareStock(ctx, code)
		return shareDoneMsg{code: code, text: text, err: err}
	}
}

func (m Model) shareLinkCmd(code string) tea.Cmd {
	if m.share == nil {
		return nil
	}
	sh := m.share
	return func() tea.Msg {
		text, err := sh.ShareLink(code)
		return shareDoneMsg{code: code, text: text, err: err}
	}
}

func (m Model) openURLCmd(url string) tea.Cmd {
	if m.open == nil || url == "" {
		return nil
	}
	open := m.open
	return func() tea.Msg {
		return openDoneMsg{url: url, err: open(url)}
	}
}

// Update.

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.handleSearchKey(msg)
		}
		if m.modal.Phase() != detail.Closed {
			return m.handleModalKey(msg)
		}
		return m.handleListKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case stocksLoadedMsg:
		if msg.err != nil {
			if m.state.Fail(msg.req, msg.err) {
				m.logger.Error("loading stocks", "page", msg.req.Page, "sort", dashboard.SortModeKey(msg.req.Sort), "search", msg.req.Search, "error", msg.err)
			}
		} else if next, over := m.state.Overshoot(msg.req, msg.page); over {
			m.logger.Info("page past the end, loading last page", "page", msg.req.Page, "last", next.Page)
			return m, m.loadStocksCmd(next)
		} else if m.state.Apply(msg.req, msg.page) {
			m.updatedAt = m.now()
			m.logger.Info("stocks loaded", "page", m.state.Page(), "total", m.state.Total(), "rows", len(m.state.Stocks()))
			if m.cursor >= len(m.state.Stocks()) {
				m.cursor = max(0, len(m.state.Stocks())-1)
			}
		} else {
			m.logger.Debug("dropping stale stocks response", "seq", msg.req.Seq, "latest", m.state.LastSeq())
		}
		m.refresh()
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			if m.modal.Failed(msg.ticket, msg.err) {
				m.logger.Warn("loading detail", "code", m.modal.Code(), "error", msg.err)
				cmd = m.setToast(goksori.UserMessage(msg.err))
				return m, cmd
			}
			return m, nil
		}
		if m.modal.Loaded(msg.ticket, msg.detail) {
			m.refresh()
			m.viewport.GotoTop()
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.modal.HistoryFailed(msg.ticket)
			m.logger.Warn("loading history", "code", m.modal.Code(), "error", msg.err)
			return m, nil
		}
		if m.modal.SetHistory(msg.ticket, msg.history) {
			m.drawChart()
			m.refresh()
		}
		return m, nil

	case shareInitMsg:
		m.logger.Info("share adapter ready", "sdk", msg.ready)
		return m, nil

	case shareDoneMsg:
		if msg.err != nil {
			m.logger.Warn("share failed", "code", msg.code, "error", msg.err)
		}
		cmd = m.setToast(msg.text)
		return m, cmd

	case openDoneMsg:
		if msg.err != nil {
			m.logger.Warn("opening browser", "url", msg.url, "error", msg.err)
		}
		return m, nil

	case countdownTickMsg:
		m.countdown = m.clock.Countdown(time.Time(msg))
		return m, countdownTickCmd(m.cfg.Refresh.CountdownInterval)

	case reloadTickMsg:
		m.logger.Info("scheduled reload")
		return m, tea.Batch(m.loadStocksCmd(m.state.Reload()), reloadTickCmd(m.cfg.Refresh.ReloadInterval))

	case searchDebounceMsg:
		if msg.id != m.debounceID || strings.TrimSpace(msg.term) == m.state.Search() {
			return m, nil
		}
		m.cursor = 0
		return m, m.loadStocksCmd(m.state.SetSearch(msg.term))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state.Loading() && m.ready {
			m.refresh()
		}
		return m, cmd
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	stocks := m.state.Stocks()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s":
		m.cursor = 0
		return m, m.loadStocksCmd(m.state.CycleSort())
	case "r":
		return m, m.loadStocksCmd(m.state.Request())
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "right", "n":
		if req, ok := m.state.Next(); ok {
			m.cursor = 0
			return m, m.loadStocksCmd(req)
		}
		return m, nil
	case "left", "p":
		if req, ok := m.state.Prev(); ok {
			m.cursor = 0
			return m, m.loadStocksCmd(req)
		}
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
			m.ensureVisible()
		}
		return m, nil
	case "down":
		if m.cursor < len(stocks)-1 {
			m.cursor++
			m.refresh()
			m.ensureVisible()
		}
		return m, nil
	case "enter":
		if s, ok := m.selected(); ok {
			t := m.modal.Open(s.Code, s.Name)
			m.refresh()
			m.viewport.GotoTop()
			return m, m.loadDetailCmd(t, s.Code)
		}
		return m, nil
	case "k":
		if s, ok := m.selected(); ok {
			return m, m.shareStockCmd(s.Code)
		}
		return m, nil
	case "l":
		if s, ok := m.selected(); ok {
			return m, m.shareLinkCmd(s.Code)
		}
		return m, nil
	case "o":
		if s, ok := m.selected(); ok {
			return m, m.openURLCmd(dashboard.NaverBoardURL(s.Code))
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace":
		m.modal.Close()
		m.refresh()
		m.ensureVisible()
		return m, nil
	case "tab":
		cmd := m.chartAction(m.modal.NextTab())
		return m, cmd
	case "1", "2", "3":
		tab := detail.Tab(msg.String()[0] - '1')
		cmd := m.chartAction(m.modal.SelectTab(tab))
		return m, cmd
	case "k":
		return m, m.shareStockCmd(m.modal.Code())
	case "l":
		return m, m.shareLinkCmd(m.modal.Code())
	case "o":
		return m, m.openURLCmd(dashboard.NaverBoardURL(m.modal.Code()))
	case "d":
		if d := m.modal.Detail(); d != nil {
			url := d.DartURL
			if url == "" {
				url = dashboard.DartURL(d.Name)
			}
			return m, m.openURLCmd(url)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.debounceID++
		if m.state.Search() == "" && m.search.Value() == "" {
			return m, nil
		}
		m.search.SetValue("")
		m.cursor = 0
		return m, m.loadStocksCmd(m.state.SetSearch(""))
	case "enter":
		m.searching = false
		m.search.Blur()
		m.debounceID++
		term := strings.TrimSpace(m.search.Value())
		if term == m.state.Search() {
			return m, nil
		}
		m.cursor = 0
		return m, m.loadStocksCmd(m.state.SetSearch(term))
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == prev {
		return m, cmd
	}
	m.debounceID++
	return m, tea.Batch(cmd, debounceCmd(m.debounceID, m.search.Value(), m.cfg.View.SearchDebounce))
}

func (m *Model) chartAction(a detail.ChartAction) tea.Cmd {
	switch a {
	case detail.ChartDraw:
		m.drawChart()
	case detail.ChartFetchHistory:
		m.refresh()
		return m.loadHistoryCmd(m.modal.Ticket(), m.modal.Code())
	}
	m.refresh()
	m.viewport.GotoTop()
	return nil
}

func (m *Model) drawChart() {
	if err := m.modal.DrawChart(); err != nil {
		m.logger.Warn("drawing chart", "code", m.modal.Code(), "error", err)
	}
}

func (m *Model) setToast(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	m.toastID++
	m.toast = text
	return toastCmd(m.toastID, m.cfg.View.ToastDuration)
}

func (m Model) selected() (goksori.StockSummary, bool) {
	stocks := m.state.Stocks()
	if m.cursor < 0 || m.cursor >= len(stocks) {
		return goksori.StockSummary{}, false
	}
	return stocks[m.cursor], true
}

// refresh re-renders the viewport body.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	if m.modal.Phase() != detail.Closed {
		m.viewport.SetContent(renderModal(m.modal, m.width))
		return
	}
	m.viewport.SetContent(renderList(m.state, m.cursor, m.width, m.spinner.View()))
}

// ensureVisible scrolls the viewport so the selected row is visible.
func (m *Model) ensureVisible() {
	if !m.ready || len(m.state.Stocks()) == 0 {
		return
	}
	line := listHeaderLines + m.cursor
	yOff := m.viewport.YOffset
	vpH := m.viewport.Height
	if line < yOff {
		m.viewport.SetYOffset(line)
	} else if line >= yOff+vpH {
		m.viewport.SetYOffset(line - vpH + 1)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "로딩 중..."
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}
