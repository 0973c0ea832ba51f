// Package view holds the list state of one dashboard session: page, sort,
// search, and the currently loaded page of stocks.
//
// Navigation never changes the adopted page directly. Every navigation
// builds a Request stamped with a sequence number; the state adopts the
// requested page only when the response to the latest request is applied.
// Responses to older requests are discarded.
package view

import (
	"context"
	"errors"
	"strings"

	"goksori/internal/dashboard"
	"goksori/pkg/goksori"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// Request is one list fetch issued by the state.
type Request struct {
	Seq    uint64
	Page   int
	Size   int
	Sort   int
	Search string
}

// Params converts the request to API client parameters.
func (r Request) Params() goksori.ListParams {
	return goksori.ListParams{
		Page:   r.Page,
		Size:   r.Size,
		Sort:   dashboard.SortModeKey(r.Sort),
		Search: r.Search,
	}
}

// State is the mutable list state of one session. It is not safe for
// concurrent use; the owner serialises access (the bubbletea Update loop or
// a single HTTP request).
type State struct {
	page     int
	pageSize int
	sort     int
	search   string
	total    int
	stocks   []goksori.StockSummary

	seq     uint64 // last issued request
	loading bool
	loaded  bool
	err     error
}

// New creates a State at page 1 with the given page size and sort mode.
func New(pageSize, sortMode int) *State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if sortMode < 0 || sortMode >= dashboard.SortModeCount {
		sortMode = dashboard.SortScoreDesc
	}
	return &State{
		page:     1,
		pageSize: pageSize,
		sort:     sortMode,
	}
}

func (s *State) Page() int { return s.page }
func (s *State) PageSize() int { return s.pageSize }
func (s *State) Sort() int { return s.sort }
func (s *State) Search() string { return s.search }
func (s *State) Total() int { return s.total }
func (s *State) Stocks() []goksori.StockSummary { return s.stocks }
func (s *State) Loading() bool { return s.loading }
func (s *State) Loaded() bool { return s.loaded }
func (s *State) Err() error { return s.err }
func (s *State) LastSeq() uint64 { return s.seq }

// TotalPages returns ceil(total/size).
func (s *State) TotalPages() int {
	return TotalPages(s.total, s.pageSize)
}

// TotalPages returns ceil(total/size), or 0 when either is non-positive.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// CanPrev reports whether a previous page exists.
func (s *State) CanPrev() bool { return s.page > 1 }

// CanNext reports whether a next page exists.
func (s *State) CanNext() bool { return s.page < s.TotalPages() }

// Rank returns the 1-based overall rank of the i-th stock on this page.
func (s *State) Rank(i int) int {
	return (s.page-1)*s.pageSize + i + 1
}

func (s *State) issue(page, sortMode int, search string) Request {
	s.seq++
	s.loading = true
	return Request{
		Seq:    s.seq,
		Page:   page,
		Size:   s.pageSize,
		Sort:   sortMode,
		Search: search,
	}
}

// Request builds a fetch for the current page, sort, and search.
func (s *State) Request() Request {
	return s.issue(s.page, s.sort, s.search)
}

// Reload builds a fetch for page 1 keeping sort and search.
func (s *State) Reload() Request {
	return s.issue(1, s.sort, s.search)
}

// Goto builds a fetch for an explicit page, e.g. one taken from a URL. A
// page past the last one is answered by an Overshoot follow-up.
func (s *State) Goto(page int) Request {
	if page < 1 {
		page = 1
	}
	return s.issue(page, s.sort, s.search)
}

// Query builds a fetch for an explicit page, sort, and search, as decoded
// from a URL. Out-of-range values are normalised.
func (s *State) Query(page, sortMode int, search string) Request {
	if page < 1 {
		page = 1
	}
	if sortMode < 0 || sortMode >= dashboard.SortModeCount {
		sortMode = dashboard.SortScoreDesc
	}
	return s.issue(page, sortMode, strings.TrimSpace(search))
}

// SetSort builds a fetch for page 1 in the given sort mode.
func (s *State) SetSort(mode int) Request {
	if mode < 0 || mode >= dashboard.SortModeCount {
		mode = dashboard.SortScoreDesc
	}
	return s.issue(1, mode, s.search)
}

// CycleSort builds a fetch for page 1 in the sort mode following the
// current one.
func (s *State) CycleSort() Request {
	return s.SetSort((s.sort + 1) % dashboard.SortModeCount)
}

// SetSearch builds a fetch for page 1 filtered by term (trimmed).
func (s *State) SetSearch(term string) Request {
	return s.issue(1, s.sort, strings.TrimSpace(term))
}

// Next builds a fetch for the next page. ok is false at the last page.
func (s *State) Next() (req Request, ok bool) {
	if !s.CanNext() {
		return Request{}, false
	}
	return s.issue(s.page+1, s.sort, s.search), true
}

// Prev builds a fetch for the previous page. ok is false at page 1.
func (s *State) Prev() (req Request, ok bool) {
	if !s.CanPrev() {
		return Request{}, false
	}
	return s.issue(s.page-1, s.sort, s.search), true
}

// IsCurrent reports whether req is the latest issued request.
func (s *State) IsCurrent(req Request) bool {
	return req.Seq == s.seq
}

// Overshoot reports whether resp answers req for a page past the last page
// of resp.Total. The rows of such a response belong to no page, so Apply
// rejects it; the returned request fetches the last page instead.
func (s *State) Overshoot(req Request, resp *goksori.StockPage) (Request, bool) {
	if !s.IsCurrent(req) || resp == nil {
		return Request{}, false
	}
	tp := TotalPages(resp.Total, s.pageSize)
	if tp == 0 || req.Page <= tp {
		return Request{}, false
	}
	return s.issue(tp, req.Sort, req.Search), true
}

// Apply adopts the response to req. It returns false, leaving the state
// untouched, when req is not the latest issued request or when the response
// overshoots the last page (see Overshoot).
func (s *State) Apply(req Request, resp *goksori.StockPage) bool {
	if !s.IsCurrent(req) || resp == nil {
		return false
	}
	tp := TotalPages(resp.Total, s.pageSize)
	if tp > 0 && req.Page > tp {
		return false
	}

	s.total = resp.Total
	s.stocks = resp.Stocks
	if s.stocks == nil {
		s.stocks = []goksori.StockSummary{}
	}
	s.sort = req.Sort
	s.search = req.Search

	s.page = req.Page
	if tp == 0 {
		s.page = 1
	}

	s.loading = false
	s.loaded = true
	s.err = nil
	return true
}

// ErrPageOutOfRange is recorded by Load when the last page keeps moving
// while it follows overshooting responses.
var ErrPageOutOfRange = errors.New("page out of range")

// maxFollowUps bounds the refetches Load issues for overshooting responses.
const maxFollowUps = 2

// FetchFunc fetches one page of stocks.
type FetchFunc func(ctx context.Context, p goksori.ListParams) (*goksori.StockPage, error)

// Load fetches req synchronously and adopts the response, refetching the
// last page when the response overshoots it. It returns the request whose
// response was adopted. Any failure is recorded with Fail and returned.
func (s *State) Load(ctx context.Context, fetch FetchFunc, req Request) (Request, error) {
	for i := 0; ; i++ {
		resp, err := fetch(ctx, req.Params())
		if err != nil {
			s.Fail(req, err)
			return req, err
		}
		next, over := s.Overshoot(req, resp)
		if !over {
			s.Apply(req, resp)
			return req, nil
		}
		if i == maxFollowUps {
			s.Fail(next, ErrPageOutOfRange)
			return next, ErrPageOutOfRange
		}
		req = next
	}
}

// Fail records a failed fetch. The stock rows are dropped so an inline error
// replaces them; page, sort, and search keep their last adopted values.
// Failures of stale requests are ignored.
func (s *State) Fail(req Request, err error) bool {
	if !s.IsCurrent(req) {
		return false
	}
	s.loading = false
	s.loaded = false
	s.stocks = nil
	s.err = err
	return true
}

// Summary returns the stats bar figures for the loaded page.
func (s *State) Summary() dashboard.Summary {
	return dashboard.ComputeSummary(s.stocks, s.total)
}

// Pagination describes the pager control.
type Pagination struct {
	Page         int  `json:"page"`
	TotalPages   int  `json:"totalPages"`
	PrevDisabled bool `json:"prevDisabled"`
	NextDisabled bool `json:"nextDisabled"`
	Hidden       bool `json:"hidden"` // a single page needs no pager
}

// Pagination returns the pager control for the adopted page.
func (s *State) Pagination() Pagination {
	return PaginationFor(s.page, s.total, s.pageSize)
}

// PaginationFor computes the pager for a page of total items.
func PaginationFor(page, total, size int) Pagination {
	tp := TotalPages(total, size)
	return Pagination{
		Page:         page,
		TotalPages:   tp,
		PrevDisabled: page <= 1,
		NextDisabled: page >= tp,
		Hidden:       tp <= 1,
	}
}
