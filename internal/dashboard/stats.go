// Package dashboard provides the sort modes, summary statistics, and
// formatting helpers shared by the terminal and web renderers.
package dashboard

import (
	"goksori/pkg/goksori"
)

// SortMode defines the list order requested from the backend.
const (
	SortScoreDesc = 0 // by score, high first (default)
	SortScoreAsc  = 1 // by score, low first
	SortName      = 2 // by name
	SortTrendUp   = 3 // rising stocks first
	SortTrendDown = 4 // falling stocks first
	SortModeCount = 5
)

var sortKeys = [SortModeCount]string{"score_desc", "score_asc", "name", "trend_up", "trend_down"}

// SortModeKey returns the API value of the given sort mode.
func SortModeKey(mode int) string {
	if mode < 0 || mode >= SortModeCount {
		return sortKeys[SortScoreDesc]
	}
	return sortKeys[mode]
}

// ParseSortMode maps an API value back to a sort mode. Unknown values map
// to SortScoreDesc.
func ParseSortMode(key string) int {
	for i, k := range sortKeys {
		if k == key {
			return i
		}
	}
	return SortScoreDesc
}

// SortModeLabel returns a short label for the given sort mode.
func SortModeLabel(mode int) string {
	switch mode {
	case SortScoreDesc:
		return "점수 높은순"
	case SortScoreAsc:
		return "점수 낮은순"
	case SortName:
		return "이름순"
	case SortTrendUp:
		return "상승 추세"
	case SortTrendDown:
		return "하락 추세"
	default:
		return "?"
	}
}

// Thresholds used by the stats bar.
const (
	HotScore  = 70
	ColdScore = 30
)

// Summary holds the stats bar figures for the loaded page.
type Summary struct {
	Total   int     // stocks matching the query, all pages
	Hot     int     // score >= HotScore on this page
	Cold    int     // score <= ColdScore on this page
	Average float64 // mean score on this page
	HasAvg  bool    // false when the page is empty
}

// ComputeSummary aggregates the stats bar for one page of stocks.
func ComputeSummary(stocks []goksori.StockSummary, total int) Summary {
	s := Summary{Total: total}
	if len(stocks) == 0 {
		return s
	}
	var sum float64
	for _, st := range stocks {
		sum += st.Score
		if st.Score >= HotScore {
			s.Hot++
		}
		if st.Score <= ColdScore {
			s.Cold++
		}
	}
	s.Average = sum / float64(len(stocks))
	s.HasAvg = true
	return s
}

// Band is the colour band of a score.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// ScoreBand returns the colour band for a score: >= 60 high, >= 40 mid.
func ScoreBand(score float64) Band {
	switch {
	case score >= 60:
		return BandHigh
	case score >= 40:
		return BandMid
	default:
		return BandLow
	}
}

// String returns the CSS-style name of the band.
func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMid:
		return "mid"
	default:
		return "low"
	}
}

// Ratios holds the share of each comment sentiment, in percent.
type Ratios struct {
	Positive float64
	Negative float64
	Neutral  float64
}

// CommentRatios returns the positive/negative/neutral percentages of the
// total comment count. All three are 0 when total is 0.
func CommentRatios(pos, neg, neu, total int) Ratios {
	if total <= 0 {
		return Ratios{}
	}
	t := float64(total)
	return Ratios{
		Positive: float64(pos) / t * 100,
		Negative: float64(neg) / t * 100,
		Neutral:  float64(neu) / t * 100,
	}
}

// DetailRatios is CommentRatios applied to a detail record.
func DetailRatios(d *goksori.StockDetail) Ratios {
	if d == nil {
		return Ratios{}
	}
	return CommentRatios(d.PositiveCount, d.NegativeCount, d.NeutralCount, d.TotalCount)
}
