package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/playlist_manager/internal/playback"
	"github.com/jscyril/playlist_manager/internal/session"
	"github.com/jscyril/playlist_manager/internal/ui/components"
)

const volumeSteps = 10

type playerStyles struct {
	title  lipgloss.Style
	path   lipgloss.Style
	status lipgloss.Style
	help   lipgloss.Style
	frame  lipgloss.Style
	on     lipgloss.Style
	off    lipgloss.Style
}

// PlayerView is the now-playing panel: the selected song, its progress, the
// volume and the key help.
type PlayerView struct {
	Width    int
	Height   int
	Snapshot session.Snapshot
	Progress components.ProgressBar
	Help     string

	styles playerStyles
}

func NewPlayerView(width, height int) PlayerView {
	return PlayerView{
		Width:    width,
		Height:   height,
		Snapshot: session.Snapshot{Current: -1},
		Progress: components.NewProgressBar(width - 8),
		styles: playerStyles{
			title:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			path:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			status: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			help:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
			frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
			on:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			off:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

func (v *PlayerView) SetSnapshot(snap session.Snapshot) {
	v.Snapshot = snap
	song := snap.CurrentSong()
	if song == nil {
		v.Progress.SetProgress(0, 0, 0)
		return
	}
	v.Progress.SetProgress(snap.Progress, snap.Position, song.Duration)
}

func (v *PlayerView) SetWidth(width int) {
	v.Width = width
	v.Progress.Width = width - 8
}

func (v PlayerView) nowPlaying() []string {
	song := v.Snapshot.CurrentSong()
	if song == nil {
		return []string{
			v.styles.title.Render("♪ Nothing selected"),
			"",
			v.styles.path.Render("Press Enter on a song to play it"),
		}
	}
	return []string{
		v.styles.status.Render(stateIcon(v.Snapshot.State)+" ") + v.styles.title.Render(song.Title),
		v.styles.path.Render(song.FilePath),
		"",
		v.Progress.View(),
	}
}

func (v PlayerView) volume() string {
	level := min(max(v.Snapshot.Volume, 0), 1)
	on := int(math.Round(level * volumeSteps))
	bar := v.styles.on.Render(strings.Repeat("●", on)) + v.styles.off.Render(strings.Repeat("○", volumeSteps-on))
	return fmt.Sprintf("Volume: %s %d%%", bar, int(math.Round(level*100)))
}

func (v PlayerView) View() string {
	lines := append(v.nowPlaying(), "", v.volume())
	if v.Help != "" {
		lines = append(lines, v.styles.help.Render(v.Help))
	}
	return v.styles.frame.Width(v.Width - 4).Render(strings.Join(lines, "\n"))
}

func stateIcon(state playback.State) string {
	switch state {
	case playback.Playing:
		return "▶"
	case playback.Paused:
		return "⏸"
	default:
		return "⏹"
	}
}
