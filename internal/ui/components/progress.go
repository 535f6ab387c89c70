package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// timeLabelWidth is the room kept right of the bar for " MM:SS/MM:SS"
const timeLabelWidth = 14

// ProgressBar shows how far into the current song playback is, followed by
// the elapsed and total time.
type ProgressBar struct {
	Width    int
	Fraction float64
	Elapsed  time.Duration
	Length   time.Duration

	filled lipgloss.Style
	empty  lipgloss.Style
}

func NewProgressBar(width int) ProgressBar {
	return ProgressBar{
		Width:  width,
		filled: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetProgress clamps fraction to [0,1]. A zero length is shown as unknown.
func (p *ProgressBar) SetProgress(fraction float64, elapsed, length time.Duration) {
	p.Fraction = min(max(fraction, 0), 1)
	p.Elapsed, p.Length = elapsed, length
}

func (p ProgressBar) View() string {
	cells := max(p.Width-timeLabelWidth, 10)
	done := int(float64(cells) * p.Fraction)

	length := unknownLength
	if p.Length > 0 {
		length = FormatDuration(p.Length)
	}

	return p.filled.Render(strings.Repeat("█", done)) +
		p.empty.Render(strings.Repeat("░", cells-done)) +
		" " + FormatDuration(p.Elapsed) + "/" + length
}

// FormatDuration formats a duration as MM:SS, or H:MM:SS past an hour
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := d/time.Hour, d%time.Hour/time.Minute, d%time.Minute/time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
