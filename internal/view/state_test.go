package view

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"goksori/internal/dashboard"
	"goksori/pkg/goksori"
)

func pageOf(total, n int) *goksori.StockPage {
	stocks := make([]goksori.StockSummary, n)
	for i := range stocks {
		stocks[i] = goksori.StockSummary{Code: fmt.Sprintf("%06d", i), Score: 50}
	}
	return &goksori.StockPage{Total: total, Stocks: stocks}
}

// load issues req and applies a response of total items.
func load(t *testing.T, s *State, req Request, total int) {
	t.Helper()
	if !s.Apply(req, pageOf(total, 1)) {
		t.Fatalf("Apply(%+v) rejected", req)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{200, 50, 4},
		{201, 50, 5},
		{7, 3, 3},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPaginationBoundaries(t *testing.T) {
	for _, total := range []int{1, 49, 50, 51, 120, 200, 201} {
		for _, size := range []int{10, 50} {
			tp := TotalPages(total, size)
			for page := 1; page <= tp; page++ {
				p := PaginationFor(page, total, size)
				if p.TotalPages != tp {
					t.Errorf("total=%d size=%d: TotalPages = %d, want %d", total, size, p.TotalPages, tp)
				}
				if p.PrevDisabled != (page == 1) {
					t.Errorf("total=%d size=%d page=%d: PrevDisabled = %v", total, size, page, p.PrevDisabled)
				}
				if p.NextDisabled != (page == tp) {
					t.Errorf("total=%d size=%d page=%d: NextDisabled = %v", total, size, page, p.NextDisabled)
				}
				if p.Hidden != (tp <= 1) {
					t.Errorf("total=%d size=%d: Hidden = %v", total, size, p.Hidden)
				}
			}
		}
	}
}

func TestNavigation(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	load(t, s, s.Request(), 120)

	if _, ok := s.Prev(); ok {
		t.Fatal("Prev at page 1 should not issue a request")
	}

	req, ok := s.Next()
	if !ok || req.Page != 2 {
		t.Fatalf("Next = %+v, %v; want page 2", req, ok)
	}
	// Not adopted until the response is applied.
	if s.Page() != 1 {
		t.Errorf("Page = %d before Apply, want 1", s.Page())
	}
	load(t, s, req, 120)
	if s.Page() != 2 {
		t.Errorf("Page = %d after Apply, want 2", s.Page())
	}

	req, _ = s.Next()
	load(t, s, req, 120)
	if s.Page() != 3 || s.CanNext() {
		t.Errorf("Page = %d CanNext = %v, want 3 false", s.Page(), s.CanNext())
	}
	if _, ok := s.Next(); ok {
		t.Error("Next at last page should not issue a request")
	}
	if got := s.Rank(0); got != 101 {
		t.Errorf("Rank(0) on page 3 = %d, want 101", got)
	}
}

func TestSortAndSearchResetPage(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	load(t, s, s.Request(), 500)
	req, _ := s.Next()
	load(t, s, req, 500)
	req, _ = s.Next()
	load(t, s, req, 500)
	if s.Page() != 3 {
		t.Fatalf("Page = %d, want 3", s.Page())
	}

	sortReq := s.SetSort(dashboard.SortName)
	if sortReq.Page != 1 {
		t.Errorf("SetSort request page = %d, want 1", sortReq.Page)
	}
	if sortReq.Params().Sort != "name" {
		t.Errorf("SetSort sort = %q, want name", sortReq.Params().Sort)
	}
	load(t, s, sortReq, 500)

	req, _ = s.Next()
	load(t, s, req, 500)

	searchReq := s.SetSearch("  삼성 ")
	if searchReq.Page != 1 || searchReq.Search != "삼성" {
		t.Errorf("SetSearch request = %+v, want page 1 search 삼성", searchReq)
	}
	load(t, s, searchReq, 3)
	if s.Page() != 1 || s.Search() != "삼성" || s.Sort() != dashboard.SortName {
		t.Errorf("state = page %d search %q sort %d", s.Page(), s.Search(), s.Sort())
	}

	cycled := s.CycleSort()
	if cycled.Sort != dashboard.SortTrendUp || cycled.Page != 1 {
		t.Errorf("CycleSort = %+v", cycled)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	load(t, s, s.Request(), 200)

	slow, _ := s.Next()
	fast := s.SetSearch("카카오")

	if !s.Apply(fast, pageOf(1, 1)) {
		t.Fatal("latest response rejected")
	}
	if s.Apply(slow, pageOf(200, 50)) {
		t.Fatal("stale response adopted")
	}
	if s.Total() != 1 || s.Search() != "카카오" || s.Page() != 1 {
		t.Errorf("stale response overwrote state: total=%d search=%q page=%d", s.Total(), s.Search(), s.Page())
	}
	if s.Fail(slow, errors.New("late")) {
		t.Error("stale failure recorded")
	}
	if s.Err() != nil {
		t.Errorf("Err = %v, want nil", s.Err())
	}
}

func TestApplyRejectsPagePastEnd(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	load(t, s, s.Request(), 200)

	req := s.Goto(9)
	empty := pageOf(120, 0)
	if s.Apply(req, empty) {
		t.Fatal("Apply adopted rows for a page past the end")
	}
	if s.Page() != 1 || s.Total() != 200 || len(s.Stocks()) != 1 {
		t.Errorf("state changed: page=%d total=%d rows=%d", s.Page(), s.Total(), len(s.Stocks()))
	}

	next, ok := s.Overshoot(req, empty)
	if !ok || next.Page != 3 || !s.IsCurrent(next) {
		t.Fatalf("Overshoot = %+v, %v; want current request for page 3", next, ok)
	}
	load(t, s, next, 120)
	if s.Page() != 3 || s.Rank(0) != 101 {
		t.Errorf("Page = %d Rank(0) = %d, want 3 101", s.Page(), s.Rank(0))
	}
	if p := s.Pagination(); p.Page != 3 || p.TotalPages != 3 || !p.NextDisabled {
		t.Errorf("Pagination = %+v", p)
	}

	req = s.Reload()
	load(t, s, req, 0)
	if s.Page() != 1 {
		t.Errorf("Page with no results = %d, want 1", s.Page())
	}
	if got := s.Pagination(); !got.Hidden {
		t.Errorf("Pagination with no results = %+v, want hidden", got)
	}
}

func TestOvershootIgnoresStaleAndInRange(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	old := s.Goto(9)
	cur := s.Goto(2)
	if _, ok := s.Overshoot(old, pageOf(120, 0)); ok {
		t.Error("stale request overshoot")
	}
	if _, ok := s.Overshoot(cur, pageOf(120, 50)); ok {
		t.Error("in-range request overshoot")
	}
	if _, ok := s.Overshoot(cur, pageOf(0, 0)); ok {
		t.Error("empty result overshoot")
	}
}

// pagedBackend serves total items in pages of size, like the real API.
func pagedBackend(total *int, calls *[]int) FetchFunc {
	return func(_ context.Context, p goksori.ListParams) (*goksori.StockPage, error) {
		*calls = append(*calls, p.Page)
		var stocks []goksori.StockSummary
		for i := (p.Page - 1) * p.Size; i < *total && i < p.Page*p.Size; i++ {
			stocks = append(stocks, goksori.StockSummary{Code: fmt.Sprintf("%06d", i)})
		}
		return &goksori.StockPage{Total: *total, Page: p.Page, Size: p.Size, Stocks: stocks}, nil
	}
}

func TestLoadRefetchesLastPage(t *testing.T) {
	total := 5
	var calls []int
	s := New(2, dashboard.SortScoreDesc)

	req, err := s.Load(context.Background(), pagedBackend(&total, &calls), s.Goto(9))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if req.Page != 3 || s.Page() != 3 {
		t.Errorf("adopted page = %d state page = %d, want 3", req.Page, s.Page())
	}
	if len(s.Stocks()) != 1 || s.Stocks()[0].Code != "000004" {
		t.Errorf("rows = %+v, want the fifth item", s.Stocks())
	}
	if len(calls) != 2 || calls[0] != 9 || calls[1] != 3 {
		t.Errorf("calls = %v, want [9 3]", calls)
	}
}

func TestLoadErrors(t *testing.T) {
	s := New(2, dashboard.SortScoreDesc)
	boom := errors.New("boom")
	failing := func(context.Context, goksori.ListParams) (*goksori.StockPage, error) { return nil, boom }
	if _, err := s.Load(context.Background(), failing, s.Request()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err = %v, want boom", s.Err())
	}

	// The total keeps shrinking under every follow-up.
	shrinking := func(_ context.Context, p goksori.ListParams) (*goksori.StockPage, error) {
		return &goksori.StockPage{Total: (p.Page - 1) * p.Size}, nil
	}
	if _, err := s.Load(context.Background(), shrinking, s.Goto(9)); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("err = %v, want ErrPageOutOfRange", err)
	}
	if !errors.Is(s.Err(), ErrPageOutOfRange) || s.Loaded() {
		t.Errorf("Err = %v Loaded = %v", s.Err(), s.Loaded())
	}
}

func TestFailClearsRows(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	load(t, s, s.Request(), 120)

	req, _ := s.Next()
	boom := &goksori.NetworkError{Op: "list stocks", Status: 503}
	if !s.Fail(req, boom) {
		t.Fatal("Fail on latest request rejected")
	}
	if s.Loading() || s.Loaded() {
		t.Errorf("Loading = %v Loaded = %v, want false false", s.Loading(), s.Loaded())
	}
	if len(s.Stocks()) != 0 {
		t.Errorf("Stocks = %d rows, want none after failure", len(s.Stocks()))
	}
	if s.Page() != 1 {
		t.Errorf("Page = %d, want 1 (failed navigation not adopted)", s.Page())
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err = %v, want %v", s.Err(), boom)
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(0, 42)
	if s.PageSize() != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", s.PageSize(), DefaultPageSize)
	}
	if s.Sort() != dashboard.SortScoreDesc {
		t.Errorf("Sort = %d, want SortScoreDesc", s.Sort())
	}
	if s.Page() != 1 {
		t.Errorf("Page = %d, want 1", s.Page())
	}
}

func TestQueryNormalises(t *testing.T) {
	s := New(50, dashboard.SortScoreDesc)
	req := s.Query(-3, 99, "  카카오 ")
	if req.Page != 1 || req.Sort != dashboard.SortScoreDesc || req.Search != "카카오" {
		t.Errorf("Query = %+v", req)
	}
	req = s.Query(4, dashboard.SortName, "")
	if p := req.Params(); p.Page != 4 || p.Sort != "name" {
		t.Errorf("Params = %+v, want page 4 sort name", p)
	}
}
