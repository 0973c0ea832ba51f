package tui

import (
	"time"

	"goksori/internal/detail"
	"goksori/internal/view"
	"goksori/pkg/goksori"
)

// Messages. Every async result carries the request or ticket it answers so
// late responses can be matched against the current state.
type stocksLoadedMsg struct {
	req  view.Request
	page *goksori.StockPage
	err  error
}

type detailLoadedMsg struct {
	ticket detail.Ticket
	detail *goksori.StockDetail
	err    error
}

type historyLoadedMsg struct {
	ticket  detail.Ticket
	history []goksori.ScorePoint
	err     error
}

type shareInitMsg struct{ ready bool }

type shareDoneMsg struct {
	code string
	text string
	err  error
}

type openDoneMsg struct {
	url string
	err error
}

type countdownTickMsg time.Time
type reloadTickMsg time.Time

type searchDebounceMsg struct {
	id   int
	term string
}

type toastExpiredMsg struct{ id int }
