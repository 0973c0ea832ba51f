package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"goksori/internal/dashboard"
	"goksori/internal/detail"
	"goksori/pkg/goksori"
)

const ratioBarCells = 30

// renderModal renders the detail view for the current phase.
func renderModal(md *detail.Modal, width int) string {
	h := md.Header()
	var b strings.Builder

	b.WriteString(plainText(h.Emoji) + " " + nameStyle.Render(plainText(h.Name)) + " " + dimStyle.Render(h.Code) + "  ")
	if md.Phase() == detail.Open {
		b.WriteString(scoreStyle(md.Detail().Score).Render(h.Score))
	} else {
		b.WriteString(dimStyle.Render(h.Score))
	}
	b.WriteString("\n\n")

	if md.Phase() != detail.Open {
		if err := md.Err(); err != nil {
			b.WriteString(errorStyle.Render("⚠️ " + goksori.UserMessage(err)))
			b.WriteString("\n" + dimStyle.Render("esc 닫기"))
		} else {
			b.WriteString(dimStyle.Render("불러오는 중..."))
		}
		return frame(b.String(), width)
	}

	b.WriteString(renderTabs(md.Tab()))
	b.WriteString("\n\n")
	switch md.Tab() {
	case detail.TabComments:
		b.WriteString(renderComments(md.Detail().Comments, width-6))
	case detail.TabChart:
		b.WriteString(renderChartTab(md))
	default:
		b.WriteString(renderOverview(md.Detail(), md.Ratios()))
	}
	return frame(b.String(), width)
}

func frame(body string, width int) string {
	w := width - 4
	if w < 20 {
		w = 20
	}
	return modalStyle.Width(w).Render(body)
}

func renderTabs(active detail.Tab) string {
	parts := make([]string, 0, detail.TabCount)
	for t := detail.Tab(0); t < detail.TabCount; t++ {
		label := fmt.Sprintf("%d %s", t+1, t.Label())
		if t == active {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func renderOverview(d *goksori.StockDetail, r dashboard.Ratios) string {
	var b strings.Builder
	kv := func(k, v string) {
		b.WriteString(statLabelStyle.Render(padRight(k, 10)))
		b.WriteString(v)
		b.WriteString("\n")
	}
	kv("등급", statValueStyle.Render(dashboard.GradeLabel(d.Grade)))
	kv("점수 변화", changeStyle(d.ScoreChange).Render(dashboard.FormatChange(d.ScoreChange)))
	kv("추세", dashboard.TrendLabel(d.Trend))
	kv("전체 댓글", dashboard.FormatCount(d.TotalCount))
	b.WriteString("\n")

	bar := func(label string, count int, pct float64, st lipgloss.Style) {
		b.WriteString(statLabelStyle.Render(padRight(label, 10)))
		b.WriteString(st.Render(ratioBar(pct, ratioBarCells)))
		b.WriteString(fmt.Sprintf(" %6s %s\n", dashboard.FormatPercent(pct), dimStyle.Render(dashboard.FormatCount(count))))
	}
	bar("😊 긍정", d.PositiveCount, r.Positive, posBarStyle)
	bar("😠 부정", d.NegativeCount, r.Negative, negBarStyle)
	bar("😐 중립", d.NeutralCount, r.Neutral, neuBarStyle)

	b.WriteString("\n")
	if len(d.Sources) > 0 {
		kv("출처", plainText(strings.Join(d.Sources, ", ")))
	}
	if d.UpdatedAt != "" {
		kv("업데이트", d.UpdatedAt)
	}
	dart := d.DartURL
	if dart == "" {
		dart = dashboard.DartURL(d.Name)
	}
	kv("DART", dimStyle.Render(dart))
	kv("토론방", dimStyle.Render(dashboard.NaverBoardURL(d.Code)))
	return b.String()
}

// ratioBar draws a percentage as a bar of cells.
func ratioBar(pct float64, cells int) string {
	filled := int(math.Round(pct / 100 * float64(cells)))
	filled = min(max(filled, 0), cells)
	return strings.Repeat("█", filled) + strings.Repeat(" ", cells-filled)
}

func renderComments(comments []goksori.Comment, width int) string {
	if len(comments) == 0 {
		return dimStyle.Render("수집된 댓글이 없습니다")
	}
	if width < 20 {
		width = 20
	}
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, c := range comments {
		if i > 0 {
			b.WriteString("\n")
		}
		st := neuBarStyle
		switch c.Sentiment {
		case goksori.SentimentPositive:
			st = posBarStyle
		case goksori.SentimentNegative:
			st = negBarStyle
		}
		b.WriteString(st.Render("▌") + " " + body.Render(plainText(c.Content)))
		b.WriteString("\n")
		meta := fmt.Sprintf("%s · 👍 %d · 출처: %s · %s", plainText(c.Author), c.Likes, plainText(c.Source), dashboard.SentimentLabel(c.Sentiment))
		b.WriteString("  " + dimStyle.Render(meta))
		b.WriteString("\n")
	}
	return b.String()
}

func renderChartTab(md *detail.Modal) string {
	if w := md.Chart(); w != nil {
		return w.View()
	}
	if h := md.History(); h != nil && len(h) == 0 {
		return dimStyle.Render("점수 기록이 없습니다")
	}
	return dimStyle.Render("차트 불러오는 중...")
}

// plainText drops control characters so crawled text cannot move the cursor
// or emit escape sequences.
func plainText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
