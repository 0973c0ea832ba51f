// Package httpapi serves the web dashboard: the stock list page, the stock
// detail deep link, and a JSON view of the list for page scripts.
package httpapi

import (
	"html/template"

	"goksori/internal/view"
)

// RowView is one rendered stock row.
type RowView struct {
	Rank      int     `json:"rank"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Emoji     string  `json:"emoji"`
	Score     float64 `json:"score"`
	ScoreText string  `json:"scoreText"`
	Band      string  `json:"band"`
	Change    string  `json:"change"`
	Trend     string  `json:"trend"`
	Grade     string  `json:"grade"`
	Link      string  `json:"link"`
}

// StatsView is the stats bar.
type StatsView struct {
	Total     int    `json:"total"`
	Hot       string `json:"hot"`
	Cold      string `json:"cold"`
	Average   string `json:"average"`
	NextCheck string `json:"nextUpdate"`
	Updated   string `json:"updated"`
}

// SortOption is one entry of the sort selector.
type SortOption struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// ListView is the list page model, also served as JSON.
type ListView struct {
	Sort       string          `json:"sort"`
	Search     string          `json:"search"`
	Sorts      []SortOption    `json:"sorts"`
	Rows       []RowView       `json:"rows"`
	Stats      StatsView       `json:"stats"`
	Pagination view.Pagination `json:"pagination"`
	PrevURL    string          `json:"prevUrl,omitempty"`
	NextURL    string          `json:"nextUrl,omitempty"`
	Error      string          `json:"error,omitempty"`
	Empty      bool            `json:"empty"`
}

// CommentView is one sanitized comment.
type CommentView struct {
	Content   template.HTML
	Author    string
	Likes     int
	Source    string
	Sentiment string
	Label     string
}

// RatioView is one sentiment bar.
type RatioView struct {
	Label   string
	Class   string
	Count   string
	Percent string
	Width   float64
}

// DetailView is the stock detail page model.
type DetailView struct {
	Code       string
	Name       string
	Emoji      string
	ScoreText  string
	Band       string
	Grade      string
	Change     string
	Trend      string
	Total      string
	Ratios     []RatioView
	Comments   []CommentView
	Sources    string
	DartURL    string
	NaverURL   string
	ShareText  string // copied by the share button: payload text, else the link
	ShareToast string
	ShareURL   string
	LinkToast  string
	FailToast  string
	ChartJSON  template.JS
	HasChart   bool
	Error      string
}
