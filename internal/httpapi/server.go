package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"goksori/internal/chart"
	"goksori/internal/config"
	"goksori/internal/dashboard"
	"goksori/internal/schedule"
	"goksori/internal/share"
	"goksori/internal/view"
	"goksori/pkg/goksori"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the subset of the backend client used by the web frontend.
type API interface {
	ListStocks(ctx context.Context, p goksori.ListParams) (*goksori.StockPage, error)
	GetStock(ctx context.Context, code string) (*goksori.StockDetail, error)
	GetShare(ctx context.Context, code string) (*goksori.SharePayload, error)
	GetScoreHistory(ctx context.Context, code string, days int) ([]goksori.ScorePoint, error)
}

// Server renders the dashboard pages from the backend API.
type Server struct {
	api         API
	cfg         *config.Config
	clock       *schedule.RefreshClock
	now         func() time.Time
	log         *slog.Logger
	policy      *bluemonday.Policy
	tmpl        *template.Template
	defaultSort int
}

// NewServer creates a Server. A nil logger means slog.Default and a nil now
// means time.Now.
func NewServer(api API, cfg *config.Config, logger *slog.Logger, now func() time.Time) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"stockPath": dashboard.StockPath,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		api:         api,
		cfg:         cfg,
		clock:       schedule.NewRefreshClock(cfg.Refresh.BoundaryHours, nil),
		now:         now,
		log:         logger,
		policy:      bluemonday.StrictPolicy(),
		tmpl:        tmpl,
		defaultSort: dashboard.ParseSortMode(cfg.View.DefaultSort),
	}, nil
}

// Handler returns the router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/stock/{code}", s.handleStock)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware)
		r.Get("/view", s.handleView)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("rendering template", "template", name, "error", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

// loadList decodes page, sort, and search from the query string, fetches
// that page, and builds its view. status is 502 when the backend failed.
func (s *Server) loadList(r *http.Request) (ListView, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	sortMode := s.defaultSort
	if key := q.Get("sort"); key != "" {
		sortMode = dashboard.ParseSortMode(key)
	}

	st := view.New(s.cfg.View.PageSize, s.defaultSort)
	req := st.Query(page, sortMode, q.Get("search"))

	req, err := st.Load(r.Context(), s.api.ListStocks, req)
	if err != nil {
		s.log.Warn("list stocks failed", "page", req.Page, "sort", dashboard.SortModeKey(req.Sort), "error", err)
		lv := s.listView(st, req)
		lv.Error = "⚠️ 데이터 로딩 실패: " + goksori.UserMessage(err)
		return lv, http.StatusBadGateway
	}
	return s.listView(st, req), http.StatusOK
}

func (s *Server) listView(st *view.State, req view.Request) ListView {
	sortMode, search := req.Sort, req.Search
	sum := st.Summary()
	lv := ListView{
		Sort:   dashboard.SortModeKey(sortMode),
		Search: search,
		Stats: StatsView{
			Total:     sum.Total,
			Hot:       dashboard.FormatCount(sum.Hot),
			Cold:      dashboard.FormatCount(sum.Cold),
			Average:   dashboard.FormatAverage(sum),
			NextCheck: s.clock.Countdown(s.now()),
			Updated:   schedule.UpdatedStamp(s.now()),
		},
		Pagination: st.Pagination(),
		Rows:       []RowView{},
	}
	for m := 0; m < dashboard.SortModeCount; m++ {
		lv.Sorts = append(lv.Sorts, SortOption{
			Key:    dashboard.SortModeKey(m),
			Label:  dashboard.SortModeLabel(m),
			Active: m == sortMode,
		})
	}
	if !st.Loaded() {
		return lv
	}

	for i, stock := range st.Stocks() {
		lv.Rows = append(lv.Rows, RowView{
			Rank:      st.Rank(i),
			Code:      stock.Code,
			Name:      stock.Name,
			Emoji:     stock.Emoji,
			Score:     stock.Score,
			ScoreText: dashboard.FormatScore(stock.Score),
			Band:      dashboard.ScoreBand(stock.Score).String(),
			Change:    dashboard.FormatChange(stock.ScoreChange),
			Trend:     dashboard.TrendLabel(stock.Trend),
			Grade:     stock.Grade,
			Link:      dashboard.StockPath(stock.Code),
		})
	}
	lv.Empty = len(lv.Rows) == 0

	p := lv.Pagination
	if !p.PrevDisabled {
		lv.PrevURL = listURL(p.Page-1, lv.Sort, search)
	}
	if !p.NextDisabled {
		lv.NextURL = listURL(p.Page+1, lv.Sort, search)
	}
	return lv
}

// listURL builds the query URL of a list page.
func listURL(page int, sortKey, search string) string {
	v := url.Values{}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if sortKey != "" {
		v.Set("sort", sortKey)
	}
	if search != "" {
		v.Set("search", search)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	lv, status := s.loadList(r)
	s.render(w, status, "index.html", lv)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	lv, status := s.loadList(r)
	writeJSON(w, status, lv)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// Detail
// ---------------------------------------------------------------------------

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}

	var (
		detail  *goksori.StockDetail
		payload *goksori.SharePayload
		history []goksori.ScorePoint
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		d, err := s.api.GetStock(ctx, code)
		if err != nil {
			return err
		}
		detail = d
		if len(d.ScoreHistory) > 0 {
			history = d.ScoreHistory
			return nil
		}
		// History is optional; a failure leaves the page without a chart.
		h, err := s.api.GetScoreHistory(ctx, code, s.cfg.View.HistoryDays)
		if err != nil {
			s.log.Warn("get history failed", "code", code, "error", err)
			return nil
		}
		history = h
		return nil
	})
	g.Go(func() error {
		p, err := s.api.GetShare(ctx, code)
		if err != nil {
			s.log.Warn("get share failed", "code", code, "error", err)
			return nil
		}
		payload = p
		return nil
	})

	if err := g.Wait(); err != nil {
		status := http.StatusBadGateway
		var ne *goksori.NetworkError
		if errors.As(err, &ne) && ne.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		s.log.Warn("get stock failed", "code", code, "status", status, "error", err)
		s.render(w, status, "stock.html", DetailView{
			Code:  code,
			Emoji: "⏳",
			Error: "⚠️ " + goksori.UserMessage(err),
		})
		return
	}

	s.render(w, http.StatusOK, "stock.html", s.detailView(detail, payload, history))
}

func (s *Server) detailView(d *goksori.StockDetail, p *goksori.SharePayload, history []goksori.ScorePoint) DetailView {
	r := dashboard.DetailRatios(d)
	dv := DetailView{
		Code:      d.Code,
		Name:      d.Name,
		Emoji:     d.Emoji,
		ScoreText: dashboard.FormatScore(d.Score),
		Band:      dashboard.ScoreBand(d.Score).String(),
		Grade:     dashboard.GradeLabel(d.Grade),
		Change:    dashboard.FormatChange(d.ScoreChange),
		Trend:     dashboard.TrendLabel(d.Trend),
		Total:     dashboard.FormatCount(d.TotalCount),
		DartURL:   d.DartURL,
		NaverURL:  dashboard.NaverBoardURL(d.Code),
		ShareURL:  dashboard.StockURL(s.cfg.Share.SiteURL, d.Code),
		LinkToast: share.MsgLinkCopied,
		FailToast: share.MsgFailed,
		Ratios: []RatioView{
			{Label: "😊 긍정", Class: "pos", Count: dashboard.FormatCount(d.PositiveCount), Percent: dashboard.FormatPercent(r.Positive), Width: r.Positive},
			{Label: "😠 부정", Class: "neg", Count: dashboard.FormatCount(d.NegativeCount), Percent: dashboard.FormatPercent(r.Negative), Width: r.Negative},
			{Label: "😐 중립", Class: "neu", Count: dashboard.FormatCount(d.NeutralCount), Percent: dashboard.FormatPercent(r.Neutral), Width: r.Neutral},
		},
	}
	if dv.DartURL == "" {
		dv.DartURL = dashboard.DartURL(d.Name)
	}
	dv.Sources = strings.Join(d.Sources, ", ")
	dv.ShareText, dv.ShareToast = dv.ShareURL, share.MsgLinkCopied
	if p != nil && p.ShareText != "" {
		dv.ShareText, dv.ShareToast = p.ShareText, share.MsgTextCopied
	}

	for _, c := range d.Comments {
		dv.Comments = append(dv.Comments, CommentView{
			// StrictPolicy output is entity-escaped text with no markup.
			Content:   template.HTML(s.policy.Sanitize(c.Content)),
			Author:    c.Author,
			Likes:     c.Likes,
			Source:    c.Source,
			Sentiment: string(c.Sentiment),
			Label:     dashboard.SentimentLabel(c.Sentiment),
		})
	}

	if len(history) > 0 {
		b, err := chart.ChartJS(chart.FromHistory(history)).JSON()
		if err != nil {
			s.log.Warn("encoding chart config", "code", d.Code, "error", err)
		} else {
			dv.ChartJSON = template.JS(b)
			dv.HasChart = true
		}
	}
	return dv
}
