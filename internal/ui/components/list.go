package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/playlist_manager/api"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

const unknownLength = "--:--"

type listStyles struct {
	cursor  lipgloss.Style
	playing lipgloss.Style
	row     lipgloss.Style
	heading lipgloss.Style
}

// SongList is the scrollable, numbered view of the playlist. Selected is the
// cursor; Playing marks the entry the player has selected (-1 for none).
type SongList struct {
	Items    []*api.Song
	Selected int
	Playing  int
	Offset   int
	Height   int
	Width    int
	Title    string

	styles listStyles
}

func NewSongList(height, width int) SongList {
	return SongList{
		Playing: -1,
		Height:  height,
		Width:   width,
		styles: listStyles{
			cursor:  lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Bold(true).Padding(0, 1),
			playing: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Padding(0, 1),
			row:     lipgloss.NewStyle().Padding(0, 1),
			heading: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).MarginBottom(1),
		},
	}
}

// SetItems replaces the entries and marks playing. The cursor stays where it
// was when it is still in range.
func (l *SongList) SetItems(items []*api.Song, playing int) {
	l.Items = items
	l.Playing = playing
	l.Select(l.Selected)
}

// Select moves the cursor to i, clamped to the list, and scrolls it into view
func (l *SongList) Select(i int) {
	l.Selected = max(min(i, len(l.Items)-1), 0)

	rows := l.rows()
	if l.Selected < l.Offset {
		l.Offset = l.Selected
	} else if l.Selected >= l.Offset+rows {
		l.Offset = l.Selected - rows + 1
	}
}

func (l SongList) Update(msg tea.Msg) (SongList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		l.Select(l.Selected - 1)
	case "down", "j":
		l.Select(l.Selected + 1)
	case "pgup":
		l.Select(l.Selected - l.rows())
	case "pgdown":
		l.Select(l.Selected + l.rows())
	case "home", "g":
		l.Select(0)
	case "end", "G":
		l.Select(len(l.Items) - 1)
	}
	return l, nil
}

// rows is how many entries fit below the heading and above the position footer
func (l *SongList) rows() int {
	return max(l.Height-2, 1)
}

// SelectedIndex returns the cursor position, or -1 for an empty list
func (l *SongList) SelectedIndex() int {
	if len(l.Items) == 0 {
		return -1
	}
	return l.Selected
}

// TotalDuration sums the known song durations
func (l *SongList) TotalDuration() time.Duration {
	return lo.SumBy(l.Items, func(s *api.Song) time.Duration { return s.Duration })
}

func (l SongList) renderRow(i int) string {
	song := l.Items[i]

	marker, style := "  ", l.styles.row
	if i == l.Playing {
		marker, style = "▶ ", l.styles.playing
	}
	if i == l.Selected {
		style = l.styles.cursor
	}

	length := unknownLength
	if song.Duration > 0 {
		length = FormatDuration(song.Duration)
	}

	row := fmt.Sprintf("%s%3d. %s  %s", marker, i+1, truncate(song.Title, 50), length)
	return style.Render(truncate(row, l.Width-2))
}

func (l SongList) View() string {
	var lines []string
	if l.Title != "" {
		heading := fmt.Sprintf("%s (%d songs, %s)", l.Title, len(l.Items), FormatDuration(l.TotalDuration()))
		lines = append(lines, l.styles.heading.Render(heading))
	}

	if len(l.Items) == 0 {
		lines = append(lines, l.styles.row.Render("Playlist is empty. Press [a] to add songs."))
		return strings.Join(lines, "\n")
	}

	end := min(l.Offset+l.rows(), len(l.Items))
	for i := l.Offset; i < end; i++ {
		lines = append(lines, l.renderRow(i))
	}
	if len(l.Items) > l.rows() {
		lines = append(lines, l.styles.row.Render(fmt.Sprintf("  [%d/%d]", l.Selected+1, len(l.Items))))
	}

	return strings.Join(lines, "\n")
}

// truncate shortens s to maxLen terminal columns
func truncate(s string, maxLen int) string {
	if maxLen < 4 {
		return s
	}
	return runewidth.Truncate(s, maxLen, "...")
}
