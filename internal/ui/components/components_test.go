package components

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jscyril/playlist_manager/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func songs(titles ...string) []*api.Song {
	out := make([]*api.Song, len(titles))
	for i, title := range titles {
		out[i] = &api.Song{Title: title, FilePath: "/m/" + title + ".mp3", Duration: time.Minute}
	}
	return out
}

func TestSongList_SetItemsClampsCursor(t *testing.T) {
	l := NewSongList(10, 80)
	l.SetItems(songs("A", "B", "C"), 1)
	l.Selected = 2

	l.SetItems(songs("A"), -1)
	assert.Equal(t, 0, l.Selected)
	assert.Equal(t, -1, l.Playing)

	l.SetItems(nil, -1)
	assert.Equal(t, -1, l.SelectedIndex())
}

func TestSongList_Navigation(t *testing.T) {
	l := NewSongList(4, 80)
	l.SetItems(songs("A", "B", "C", "D", "E"), -1)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, l.SelectedIndex())
	assert.Equal(t, 2, l.Offset)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, l.Selected)
	assert.Equal(t, 0, l.Offset)

	for range 3 {
		l, _ = l.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	}
	assert.Equal(t, 4, l.Selected)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 3, l.Selected)

	l.Select(-5)
	assert.Equal(t, 0, l.Selected)
}

func TestSongList_View(t *testing.T) {
	l := NewSongList(10, 80)
	l.Title = "Mix"
	assert.Contains(t, l.View(), "Playlist is empty")

	items := songs("Alpha", "Beta")
	items[1].Duration = 0
	l.SetItems(items, 0)

	out := l.View()
	assert.Contains(t, out, "Mix (2 songs, 01:00)")
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "--:--")
	assert.Equal(t, time.Minute, l.TotalDuration())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{90*time.Second + 400*time.Millisecond, "01:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar(40)

	p.SetProgress(1.5, time.Minute, 2*time.Minute)
	assert.Equal(t, 1.0, p.Fraction)
	assert.Contains(t, p.View(), "01:00/02:00")

	p.SetProgress(-1, 0, 0)
	assert.Equal(t, 0.0, p.Fraction)
	assert.Contains(t, p.View(), "00:00/--:--")
}

func TestTextInput(t *testing.T) {
	in := NewTextInput(30)

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Empty(t, in.Value(), "unfocused input ignores keys")

	in.Focus()
	assert.True(t, in.Focused())
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("road")},
		{Type: tea.KeySpace, Runes: []rune(" ")},
		{Type: tea.KeyRunes, Runes: []rune("trip")},
		{Type: tea.KeyBackspace},
	} {
		in, _ = in.Update(msg)
	}
	assert.Equal(t, "road tri", in.Value())

	in.SetValue("mix")
	assert.Equal(t, 3, in.Input.Position())
	assert.Contains(t, in.View(), "mix")

	in.Clear()
	assert.Empty(t, in.Value())
	in.Blur()
	assert.False(t, in.Focused())
	assert.Contains(t, in.View(), "playlist name or path")
}

func TestFileBrowser_Navigate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "albums"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".cache"), 0755))
	for _, name := range []string{"b.mp3", "A.flac", "cover.jpg", ".hidden.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
	}

	fb := NewFileBrowser(dir, 80, 30)
	require.NoError(t, fb.Err)

	names := make([]string, len(fb.Entries))
	for i, e := range fb.Entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"..", "albums", "A.flac", "b.mp3"}, names)
	assert.Equal(t, int64(4), fb.Entries[2].Size)

	fb.Selected = 1
	assert.Empty(t, fb.EnterSelected())
	assert.Equal(t, filepath.Join(dir, "albums"), fb.CurrentPath)

	fb, _ = fb.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, dir, fb.CurrentPath)

	fb.Selected = 3
	assert.Equal(t, filepath.Join(dir, "b.mp3"), fb.EnterSelected())
	assert.Contains(t, fb.View(), "Files: 2 (8 B)")
}

func TestFileBrowser_MissingDir(t *testing.T) {
	fb := NewFileBrowser(filepath.Join(t.TempDir(), "missing"), 80, 30)
	assert.Error(t, fb.Err)
	assert.Empty(t, fb.Entries)
	assert.Nil(t, fb.SelectedEntry())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "日本...", truncate("日本語テキスト", 8))
}
