// Package goksori is a Go SDK for the goksori sentiment API: paginated stock
// lists, stock detail, share payloads, and score history.
package goksori

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	opListStocks = "list stocks"
	opGetStock   = "get stock"
	opGetShare   = "get share"
	opGetHistory = "get history"
)

// DefaultHistoryDays is the history window requested when none is given.
const DefaultHistoryDays = 30

// Client provides access to the backend sentiment API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	log        *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a new API client. baseURL is the site root; the /api
// prefix is added by the client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "goksori-client",
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the site root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListParams selects one page of the stock list.
type ListParams struct {
	Page   int
	Size   int
	Sort   string
	Search string
}

// ListStocks retrieves one page of stocks.
func (c *Client) ListStocks(ctx context.Context, p ListParams) (*StockPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	q.Set("sort", p.Sort)
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}

	var page StockPage
	if err := c.get(ctx, opListStocks, "/api/stocks/?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	if page.Stocks == nil {
		page.Stocks = []StockSummary{}
	}
	return &page, nil
}

// GetStock retrieves the detail record for one stock.
func (c *Client) GetStock(ctx context.Context, code string) (*StockDetail, error) {
	var d StockDetail
	if err := c.get(ctx, opGetStock, "/api/stocks/"+url.PathEscape(code), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetShare retrieves the share payload for one stock.
func (c *Client) GetShare(ctx context.Context, code string) (*SharePayload, error) {
	var s SharePayload
	if err := c.get(ctx, opGetShare, "/api/share/"+url.PathEscape(code), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetScoreHistory retrieves the last days of score history for a stock,
// oldest first.
func (c *Client) GetScoreHistory(ctx context.Context, code string, days int) ([]ScorePoint, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	path := fmt.Sprintf("/api/sentiment/%s/history?days=%d", url.PathEscape(code), days)

	var h historyResponse
	if err := c.get(ctx, opGetHistory, path, &h); err != nil {
		return nil, err
	}
	if h.History == nil {
		h.History = []ScorePoint{}
	}
	return h.History, nil
}

// get issues a GET request and decodes a JSON body into out.
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("api request", "op", op, "path", path, "status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: op, Err: err}
	}
	return nil
}
