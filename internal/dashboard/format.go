package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"goksori/pkg/goksori"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatScore formats a score as "72.5점".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f점", score)
}

// FormatChange formats a score change with an explicit sign for positive
// values: "+1.2", "-3.0", "0.0".
func FormatChange(change float64) string {
	if change > 0 {
		return fmt.Sprintf("+%.1f", change)
	}
	return fmt.Sprintf("%.1f", change)
}

// FormatCount formats a comment count as "12개".
func FormatCount(n int) string {
	return FormatInt(n) + "개"
}

// FormatAverage formats the page average, or "-점" when the page is empty.
func FormatAverage(s Summary) string {
	if !s.HasAvg {
		return "-점"
	}
	return fmt.Sprintf("%.1f점", s.Average)
}

// FormatPercent formats a bar width as "33.3%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// TrendLabel returns the display label of a trend. Unknown values are
// returned as-is.
func TrendLabel(t goksori.Trend) string {
	switch t {
	case goksori.TrendUp:
		return "📈 상승"
	case goksori.TrendDown:
		return "📉 하락"
	case goksori.TrendNeutral:
		return "➡️ 중립"
	default:
		return string(t)
	}
}

// SentimentLabel returns the display label of a comment sentiment.
func SentimentLabel(s goksori.Sentiment) string {
	switch s {
	case goksori.SentimentPositive:
		return "😊 긍정"
	case goksori.SentimentNegative:
		return "😠 부정"
	default:
		return "😐 중립"
	}
}

// GradeLabel formats a grade as "B등급".
func GradeLabel(grade string) string {
	return grade + "등급"
}

// StockPath returns the deep-link path of a stock detail page.
func StockPath(code string) string {
	return "/stock/" + url.PathEscape(code)
}

// StockURL returns the absolute deep link of a stock on the public site.
func StockURL(siteURL, code string) string {
	return strings.TrimRight(siteURL, "/") + StockPath(code)
}

// DartURL returns the DART corporate filing search for a company name.
func DartURL(name string) string {
	return "https://dart.fss.or.kr/corp/searchCorp.do?firmName=" + url.QueryEscape(name)
}

// NaverBoardURL returns the Naver Finance discussion board of a stock.
func NaverBoardURL(code string) string {
	return "https://finance.naver.com/item/board.naver?code=" + url.QueryEscape(code)
}
