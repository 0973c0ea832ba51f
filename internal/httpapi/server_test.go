package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"goksori/internal/config"
	"goksori/internal/share"
	"goksori/pkg/goksori"
)

type fakeAPI struct {
	mu         sync.Mutex
	lists      []goksori.ListParams
	page       *goksori.StockPage
	listErr    error
	detail     *goksori.StockDetail
	stockErr   error
	share      *goksori.SharePayload
	history    []goksori.ScorePoint
	historyErr error
	histories  int
	paged      int // when > 0, ListStocks pages this many items
}

func (f *fakeAPI) ListStocks(_ context.Context, p goksori.ListParams) (*goksori.StockPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, p)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.paged > 0 {
		out := &goksori.StockPage{Total: f.paged, Page: p.Page, Size: p.Size}
		for i := (p.Page - 1) * p.Size; i < f.paged && i < p.Page*p.Size; i++ {
			out.Stocks = append(out.Stocks, goksori.StockSummary{Code: fmt.Sprintf("%06d", i), Name: fmt.Sprintf("종목%d", i)})
		}
		return out, nil
	}
	return f.page, nil
}

func (f *fakeAPI) GetStock(_ context.Context, code string) (*goksori.StockDetail, error) {
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	return f.detail, nil
}

func (f *fakeAPI) GetShare(_ context.Context, code string) (*goksori.SharePayload, error) {
	if f.share == nil {
		return nil, &goksori.NetworkError{Op: "get share", Status: http.StatusInternalServerError}
	}
	return f.share, nil
}

func (f *fakeAPI) GetScoreHistory(_ context.Context, code string, days int) ([]goksori.ScorePoint, error) {
	f.mu.Lock()
	f.histories++
	f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func newServer(t *testing.T, api *fakeAPI) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.View.PageSize = 2
	now := func() time.Time { return time.Date(2026, 3, 2, 14, 20, 0, 0, time.Local) }
	srv, err := NewServer(api, cfg, nil, now)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func newTestServer(t *testing.T, api *fakeAPI) http.Handler {
	t.Helper()
	return newServer(t, api).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func samplePage() *goksori.StockPage {
	return &goksori.StockPage{
		Total: 5,
		Page:  1,
		Size:  2,
		Stocks: []goksori.StockSummary{
			{Code: "005930", Name: "삼성전자", Emoji: "😭", Score: 82.5, ScoreChange: 3.1, Trend: goksori.TrendUp, Grade: "A"},
			{Code: "000660", Name: "SK하이닉스", Emoji: "😐", Score: 20, ScoreChange: -1, Trend: goksori.TrendDown, Grade: "D"},
		},
	}
}

func TestIndexRendersPage(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	rec := get(t, newTestServer(t, api), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"삼성전자", "/stock/005930", "82.5", "1 / 3 페이지", "1시간 40분 후", "📈 상승"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if len(api.lists) != 1 {
		t.Fatalf("lists = %d, want 1", len(api.lists))
	}
	p := api.lists[0]
	if p.Page != 1 || p.Size != 2 || p.Sort != "score_desc" || p.Search != "" {
		t.Errorf("params = %+v", p)
	}
}

func TestIndexQueryParams(t *testing.T) {
	api := &fakeAPI{page: &goksori.StockPage{Total: 5, Stocks: samplePage().Stocks}}
	get(t, newTestServer(t, api), "/?page=2&sort=name&search=+%EC%82%BC%EC%84%B1+")
	get(t, newTestServer(t, api), "/?page=-4&sort=bogus")

	if len(api.lists) != 2 {
		t.Fatalf("lists = %d, want 2", len(api.lists))
	}
	if p := api.lists[0]; p.Page != 2 || p.Sort != "name" || p.Search != "삼성" {
		t.Errorf("first params = %+v", p)
	}
	if p := api.lists[1]; p.Page != 1 || p.Sort != "score_desc" {
		t.Errorf("second params = %+v", p)
	}
}

func TestIndexPagePastEndShowsLastPage(t *testing.T) {
	api := &fakeAPI{paged: 5}
	rec := get(t, newTestServer(t, api), "/?page=9")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "종목4") || !strings.Contains(body, "3 / 3 페이지") {
		t.Errorf("last page not rendered:\n%s", body)
	}
	if strings.Contains(body, "검색 결과가 없습니다") {
		t.Error("empty message rendered for a non-empty last page")
	}
	if len(api.lists) != 2 || api.lists[1].Page != 3 {
		t.Errorf("lists = %+v, want a follow-up for page 3", api.lists)
	}
}

func TestIndexListError(t *testing.T) {
	api := &fakeAPI{listErr: &goksori.NetworkError{Op: "list stocks", Err: errors.New("connection refused")}}
	rec := get(t, newTestServer(t, api), "/")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "⚠️ 데이터 로딩 실패: 종목 데이터 로딩 실패") {
		t.Errorf("body missing inline error:\n%s", body)
	}
	if strings.Contains(body, "페이지") {
		t.Error("pager rendered on error")
	}
}

func TestIndexEmpty(t *testing.T) {
	api := &fakeAPI{page: &goksori.StockPage{}}
	body := get(t, newTestServer(t, api), "/?search=zzz").Body.String()
	if !strings.Contains(body, "검색 결과가 없습니다") {
		t.Error("missing empty message")
	}
	if !strings.Contains(body, `id="avg-score">-점<`) {
		t.Error("empty average should render as -")
	}
}

func TestViewJSON(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	rec := get(t, newTestServer(t, api), "/api/view?page=3")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
	var lv ListView
	if err := json.Unmarshal(rec.Body.Bytes(), &lv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lv.Rows) != 2 || lv.Rows[0].Rank != 5 || lv.Rows[1].Rank != 6 {
		t.Errorf("rows = %+v", lv.Rows)
	}
	if lv.Pagination.Page != 3 || !lv.Pagination.NextDisabled || lv.NextURL != "" {
		t.Errorf("pagination = %+v next=%q", lv.Pagination, lv.NextURL)
	}
	if lv.PrevURL != "/?page=2&sort=score_desc" {
		t.Errorf("prev url = %q", lv.PrevURL)
	}
	if lv.Stats.Hot != "1개" || lv.Stats.Cold != "1개" {
		t.Errorf("stats = %+v", lv.Stats)
	}

	var raw struct {
		Pagination map[string]any `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	for _, k := range []string{"page", "totalPages", "prevDisabled", "nextDisabled", "hidden"} {
		if _, ok := raw.Pagination[k]; !ok {
			t.Errorf("pagination key %q missing: %v", k, raw.Pagination)
		}
	}
}

func sampleDetail() *goksori.StockDetail {
	return &goksori.StockDetail{
		StockSummary:  samplePage().Stocks[0],
		PositiveCount: 1,
		NegativeCount: 3,
		NeutralCount:  0,
		TotalCount:    4,
		Comments: []goksori.Comment{
			{Content: "<b>굵게</b> 물렸다 & 손절", Author: "개미", Likes: 7, Source: "naver", Sentiment: goksori.SentimentNegative},
		},
	}
}

func TestStockPage(t *testing.T) {
	api := &fakeAPI{
		detail:  sampleDetail(),
		share:   &goksori.SharePayload{ShareText: "삼성전자 곡소리 82.5"},
		history: []goksori.ScorePoint{{Date: "2026-03-01", Score: 70}, {Date: "2026-03-02", Score: 82.5}},
	}
	rec := get(t, newTestServer(t, api), "/stock/005930")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"굵게 물렸다 &amp; 손절",
		"😠 부정",
		"75.0%",
		"score-chart",
		"finance.naver.com/item/board.naver?code=005930",
		"firmName=",
		"goksori.com",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "<b>굵게") {
		t.Error("comment markup not stripped")
	}
	if api.histories != 1 {
		t.Errorf("history calls = %d, want 1", api.histories)
	}
}

func TestStockPageUsesEmbeddedHistory(t *testing.T) {
	d := sampleDetail()
	d.ScoreHistory = []goksori.ScorePoint{{Date: "2026-03-01", Score: 40}, {Date: "2026-03-02", Score: 55}}
	api := &fakeAPI{detail: d, history: []goksori.ScorePoint{{Date: "2026-01-01", Score: 1}}}
	rec := get(t, newTestServer(t, api), "/stock/005930")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if api.histories != 0 {
		t.Errorf("history calls = %d, want 0", api.histories)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"labels":["03-01","03-02"]`) {
		t.Error("chart not drawn from the embedded history")
	}
}

func TestShareButtonText(t *testing.T) {
	srv := newServer(t, &fakeAPI{})

	dv := srv.detailView(sampleDetail(), nil, nil)
	if dv.ShareText != dv.ShareURL || dv.ShareToast != share.MsgLinkCopied {
		t.Errorf("without payload: text=%q toast=%q, want link and %q", dv.ShareText, dv.ShareToast, share.MsgLinkCopied)
	}

	dv = srv.detailView(sampleDetail(), &goksori.SharePayload{ShareText: "곡소리"}, nil)
	if dv.ShareText != "곡소리" || dv.ShareToast != share.MsgTextCopied {
		t.Errorf("with payload: text=%q toast=%q", dv.ShareText, dv.ShareToast)
	}
}

func TestStockPageOptionalFailures(t *testing.T) {
	api := &fakeAPI{detail: sampleDetail(), historyErr: errors.New("boom")}
	rec := get(t, newTestServer(t, api), "/stock/005930")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "score-chart") {
		t.Error("chart rendered without history")
	}
}

func TestStockPageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &goksori.NetworkError{Op: "get stock", Status: http.StatusNotFound}, http.StatusNotFound},
		{"backend down", &goksori.NetworkError{Op: "get stock", Err: errors.New("dial")}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{stockErr: tt.err}
			rec := get(t, newTestServer(t, api), "/stock/999999")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if !strings.Contains(rec.Body.String(), "종목 상세 로딩 실패") {
				t.Error("missing user message")
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, &fakeAPI{}), "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}
