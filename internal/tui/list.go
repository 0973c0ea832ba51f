package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"goksori/internal/dashboard"
	"goksori/internal/detail"
	"goksori/internal/schedule"
	"goksori/internal/view"
	"goksori/pkg/goksori"
)

const (
	headerHeight    = 2
	footerHeight    = 1
	listHeaderLines = 1 // column header above the first row
	scoreBarCells   = 10
	nameWidth       = 16
)

// renderList renders the stock grid for the adopted page, or the loading,
// error, or empty state in its place.
func renderList(s *view.State, cursor, width int, spin string) string {
	if err := s.Err(); err != nil {
		return "\n " + errorStyle.Render("⚠️ 데이터 로딩 실패: "+goksori.UserMessage(err)) + "\n " + dimStyle.Render("r 다시 시도")
	}
	if !s.Loaded() {
		return "\n " + spin + " " + dimStyle.Render("종목 데이터를 불러오는 중...")
	}
	stocks := s.Stocks()
	if len(stocks) == 0 {
		return "\n " + dimStyle.Render("검색 결과가 없습니다")
	}

	var b strings.Builder
	b.WriteString(colHeaderStyle.Render(fmt.Sprintf(" %4s   %s %-6s  %7s  %-*s  %6s  %-8s %s",
		"#", padRight("종목", nameWidth), "코드", "점수", scoreBarCells, "", "변화", "추세", "등급")))
	b.WriteString("\n")
	for i, st := range stocks {
		writeStockRow(&b, st, s.Rank(i), i == cursor, width)
		b.WriteString("\n")
	}
	return b.String()
}

func writeStockRow(b *strings.Builder, st goksori.StockSummary, rank int, hl bool, width int) {
	sp := hlStyle(lipgloss.NewStyle(), hl).Render(" ")

	rankStyle := dimStyle
	if rank <= 3 {
		rankStyle = statValueStyle
	}
	var line strings.Builder
	line.WriteString(hlStyle(rankStyle, hl).Render(fmt.Sprintf(" %4d", rank)))
	line.WriteString(sp)
	line.WriteString(hlStyle(lipgloss.NewStyle(), hl).Render(padRight(plainText(st.Emoji), 2)))
	line.WriteString(sp)
	line.WriteString(hlStyle(nameStyle, hl).Render(padRight(truncWidth(plainText(st.Name), nameWidth), nameWidth)))
	line.WriteString(sp)
	line.WriteString(hlStyle(dimStyle, hl).Render(fmt.Sprintf("%-6s", st.Code)))
	line.WriteString(sp + sp)
	line.WriteString(hlStyle(scoreStyle(st.Score), hl).Render(fmt.Sprintf("%7s", dashboard.FormatScore(st.Score))))
	line.WriteString(sp + sp)
	line.WriteString(hlStyle(scoreStyle(st.Score), hl).Render(scoreBar(st.Score, scoreBarCells)))
	line.WriteString(sp + sp)
	line.WriteString(hlStyle(changeStyle(st.ScoreChange), hl).Render(fmt.Sprintf("%6s", dashboard.FormatChange(st.ScoreChange))))
	line.WriteString(sp + sp)
	line.WriteString(hlStyle(lipgloss.NewStyle(), hl).Render(padRight(dashboard.TrendLabel(st.Trend), 8)))
	line.WriteString(sp)
	line.WriteString(hlStyle(statValueStyle, hl).Render(st.Grade))

	row := line.String()
	if hl {
		if pad := width - lipgloss.Width(row); pad > 0 {
			row += lipgloss.NewStyle().Background(highlightBG).Render(strings.Repeat(" ", pad))
		}
	}
	b.WriteString(row)
}

// scoreBar draws a 0-100 score as a bar of cells.
func scoreBar(score float64, cells int) string {
	filled := int(math.Round(score / 100 * float64(cells)))
	filled = min(max(filled, 0), cells)
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

func (m Model) renderHeader() string {
	s := m.state
	title := " 곡소리 매매법 "
	info := " " + dashboard.SortModeLabel(s.Sort())
	if q := s.Search(); q != "" {
		info += " · 검색: " + q
	}
	if s.Loading() && s.Loaded() {
		info += " " + m.spinner.View()
	}
	right := ""
	if !m.updatedAt.IsZero() {
		right = dimStyle.Render(schedule.UpdatedStamp(m.updatedAt) + " ")
	}
	top := titleStyle.Render(title) + statLabelStyle.Render(info)
	if gap := m.width - lipgloss.Width(top) - lipgloss.Width(right); gap > 0 {
		top += strings.Repeat(" ", gap)
	}
	top += right

	return top + "\n" + renderStats(s.Summary(), m.countdown)
}

// renderStats renders the stats bar: total, hot and cold counts on the page,
// page average, and the countdown to the next data refresh.
func renderStats(sum dashboard.Summary, countdown string) string {
	var b strings.Builder
	b.WriteString(statLabelStyle.Render(" 전체 "))
	b.WriteString(statValueStyle.Render(dashboard.FormatInt(sum.Total)))
	b.WriteString(statLabelStyle.Render("  🔥 과열 "))
	b.WriteString(hotStyle.Render(dashboard.FormatCount(sum.Hot)))
	b.WriteString(statLabelStyle.Render("  🥶 침체 "))
	b.WriteString(coldStyle.Render(dashboard.FormatCount(sum.Cold)))
	b.WriteString(statLabelStyle.Render("  평균 "))
	b.WriteString(statValueStyle.Render(dashboard.FormatAverage(sum)))
	b.WriteString(statLabelStyle.Render("  다음 업데이트 "))
	b.WriteString(statValueStyle.Render(countdown))
	return b.String()
}

// renderPager renders "◀ 2 / 5 페이지 ▶" with the arrows dimmed at the
// boundaries. A single page renders nothing.
func renderPager(p view.Pagination) string {
	if p.Hidden {
		return ""
	}
	prev, next := statValueStyle.Render("◀"), statValueStyle.Render("▶")
	if p.PrevDisabled {
		prev = dimStyle.Render("◁")
	}
	if p.NextDisabled {
		next = dimStyle.Render("▷")
	}
	return fmt.Sprintf("%s %d / %d 페이지 %s", prev, p.Page, p.TotalPages, next)
}

func (m Model) renderFooter() string {
	if m.searching {
		return m.search.View()
	}
	if m.toast != "" {
		return toastStyle.Render(" " + m.toast + " ")
	}

	var left, hints string
	if m.modal.Phase() != detail.Closed {
		hints = "tab/1-3 탭  k 공유  l 링크  o 토론방  d DART  esc 닫기"
	} else {
		left = renderPager(m.state.Pagination())
		hints = "↑↓ 선택  enter 상세  ←→ 페이지  s 정렬  / 검색  k 공유  l 링크  q 종료"
	}
	right := footerStyle.Render(hints + " ")
	if left != "" {
		left = " " + left
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// truncWidth cuts s to at most width display cells, ending in "…" when cut.
func truncWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}
