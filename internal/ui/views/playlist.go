package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/playlist"
	"github.com/jscyril/playlist_manager/internal/ui/components"
)

// PlaylistView shows the current playlist, or the saved playlists on disk
type PlaylistView struct {
	Width        int
	Height       int
	SongList     components.SongList
	Saved        []playlist.Info
	ShowingSaved bool
	Selected     int
	BorderStyle  lipgloss.Style
	TitleStyle   lipgloss.Style
}

// NewPlaylistView creates a new playlist view
func NewPlaylistView(width, height int) PlaylistView {
	songList := components.NewSongList(height-6, width-6)
	songList.Title = "📋 Playlist"

	return PlaylistView{
		Width:    width,
		Height:   height,
		SongList: songList,
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
	}
}

// SetSongs refreshes the current playlist
func (v *PlaylistView) SetSongs(songs []*api.Song, playing int) {
	v.SongList.SetItems(songs, playing)
}

// ShowSaved switches to the saved playlist picker
func (v *PlaylistView) ShowSaved(saved []playlist.Info) {
	v.Saved = saved
	v.ShowingSaved = true
	v.Selected = min(v.Selected, max(len(saved)-1, 0))
}

// HideSaved returns to the current playlist
func (v *PlaylistView) HideSaved() {
	v.ShowingSaved = false
}

// SetSize resizes the view
func (v *PlaylistView) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.SongList.Width = width - 6
	v.SongList.Height = height - 6
}

// Update handles messages
func (v PlaylistView) Update(msg tea.Msg) (PlaylistView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if !v.ShowingSaved {
		v.SongList, _ = v.SongList.Update(keyMsg)
		return v, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.Selected > 0 {
			v.Selected--
		}
	case "down", "j":
		if v.Selected < len(v.Saved)-1 {
			v.Selected++
		}
	}
	return v, nil
}

// SelectedSong returns the cursor index in the current playlist, or -1
func (v *PlaylistView) SelectedSong() int {
	if v.ShowingSaved {
		return -1
	}
	return v.SongList.SelectedIndex()
}

// SelectedSaved returns the highlighted saved playlist
func (v *PlaylistView) SelectedSaved() (playlist.Info, bool) {
	if !v.ShowingSaved || v.Selected < 0 || v.Selected >= len(v.Saved) {
		return playlist.Info{}, false
	}
	return v.Saved[v.Selected], true
}

// View renders the playlist view
func (v PlaylistView) View() string {
	var sb strings.Builder
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if !v.ShowingSaved {
		sb.WriteString(v.SongList.View())
		return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
	}

	sb.WriteString(v.TitleStyle.Render("💾 Saved playlists"))
	sb.WriteString("\n\n")

	if len(v.Saved) == 0 {
		sb.WriteString(hint.Render("No saved playlists yet"))
	} else {
		selectedStyle := lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1)
		normalStyle := lipgloss.NewStyle().Padding(0, 1)

		for i, info := range v.Saved {
			line := info.Name + hint.Render(fmt.Sprintf(" (%s, saved %s)",
				humanize.Bytes(uint64(max(info.Size, 0))), humanize.Time(info.ModTime)))

			if i == v.Selected {
				sb.WriteString(selectedStyle.Render(line))
			} else {
				sb.WriteString(normalStyle.Render(line))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(hint.Render("[Enter] Load  [Esc] Back  [↑↓] Navigate"))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
