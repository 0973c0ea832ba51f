package tui

import (
	"github.com/charmbracelet/lipgloss"

	"goksori/internal/dashboard"
)

// Styles.
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	statLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	hotStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	coldStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	nameStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	scoreHighStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	scoreMidStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	scoreLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	gainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	toastStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	posBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neuBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	searchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	highlightBG    = lipgloss.Color("236")
)

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

func scoreStyle(score float64) lipgloss.Style {
	switch dashboard.ScoreBand(score) {
	case dashboard.BandHigh:
		return scoreHighStyle
	case dashboard.BandMid:
		return scoreMidStyle
	default:
		return scoreLowStyle
	}
}

func changeStyle(change float64) lipgloss.Style {
	switch {
	case change > 0:
		return gainStyle
	case change < 0:
		return lossStyle
	default:
		return dimStyle
	}
}
