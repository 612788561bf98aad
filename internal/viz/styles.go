package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Subtle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	MetricValue   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	MetricLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	KeyHint       = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#666688"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as bars scaled to their range.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(sparkChars)-1)), 0), len(sparkChars)-1)
		c := string(sparkChars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(SparkMid.Render(c))
		default:
			b.WriteString(SparkLow.Render(c))
		}
	}
	return b.String()
}

// Separator is a width-wide rule with a centered marker.
func Separator(width int) string {
	side := max(width-3, 0)
	left := strings.Repeat("─", side/2)
	right := strings.Repeat("─", side-side/2)
	return Subtle.Render(left + " ◆ " + right)
}
