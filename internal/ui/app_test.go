package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jscyril/playlist_manager/internal/audio"
	"github.com/jscyril/playlist_manager/internal/config"
	"github.com/jscyril/playlist_manager/internal/playback"
	"github.com/jscyril/playlist_manager/internal/playlist"
	"github.com/jscyril/playlist_manager/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exists(string) (os.FileInfo, error) { return nil, nil }

func newTestModel(t *testing.T) (Model, *session.Session, *playlist.Manager) {
	t.Helper()

	mock := audio.NewMock()
	scanner := playlist.NewScanner(2, mock, zerolog.Nop())
	store := playlist.NewStore(scanner, zerolog.Nop())
	ctrl := playback.NewController(store, mock, zerolog.Nop(), playback.WithStat(exists))
	sess := session.New(ctrl, scanner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sess.Serve(ctx, mock.Finished(), time.Millisecond)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	manager := playlist.NewManager(filepath.Join(t.TempDir(), "playlists"))
	m := NewModel(ctx, Options{
		Session:  sess,
		Manager:  manager,
		Keys:     config.DefaultKeyMap(),
		MusicDir: t.TempDir(),
		Logger:   zerolog.Nop(),
	})
	return m, sess, manager
}

// send feeds msg to the model and runs the resulting commands
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
		return m
	default:
		return send(t, m, msg)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// sync pulls a fresh snapshot into the model
func sync(t *testing.T, m Model) Model {
	t.Helper()
	return send(t, m, m.refresh()())
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = send(t, m, keyMsg(string(r)))
	}
	return m
}

func TestModel_PlayAndNavigate(t *testing.T) {
	m, sess, _ := newTestModel(t)
	_, err := sess.AddPaths(context.Background(), "/m/A.mp3", "/m/B.mp3", "/m/C.mp3")
	require.NoError(t, err)
	m = sync(t, m)

	m = send(t, m, keyMsg("down"))
	m = send(t, m, keyMsg("enter"))
	assert.Equal(t, 1, m.snap.Current)
	assert.Equal(t, playback.Playing, m.snap.State)
	assert.Equal(t, 1, m.playlistView.SongList.Playing)

	m = send(t, m, keyMsg("n"))
	assert.Equal(t, 2, m.snap.Current)

	m = send(t, m, keyMsg(" "))
	assert.Equal(t, playback.Paused, m.snap.State)

	m = send(t, m, keyMsg("s"))
	assert.Equal(t, playback.Idle, m.snap.State)
	assert.Equal(t, -1, m.snap.Current)
	assert.Equal(t, "Stopped", m.status)
}

func TestModel_InformationalStatus(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(t, m, keyMsg("P"))
	assert.NotEmpty(t, m.status)
	assert.False(t, m.statusErr)

	m = send(t, m, keyMsg("n"))
	assert.True(t, m.statusErr)
}

func TestModel_SaveAndLoad(t *testing.T) {
	m, sess, manager := newTestModel(t)
	ctx := context.Background()
	_, err := sess.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3")
	require.NoError(t, err)

	m = send(t, m, keyMsg("w"))
	assert.Equal(t, modeSave, m.mode)
	m = typeText(t, m, "mix")
	m = send(t, m, keyMsg("enter"))
	assert.Equal(t, modeNormal, m.mode)
	assert.False(t, m.statusErr, m.status)
	assert.FileExists(t, manager.PathFor("mix"))
	assert.Contains(t, m.View(), "📋 mix")

	_, err = sess.AddPaths(ctx, "/m/C.mp3")
	require.NoError(t, err)
	m = send(t, m, keyMsg("w"))
	m = typeText(t, m, "road")
	m = send(t, m, keyMsg("enter"))
	assert.Contains(t, m.View(), "📋 road")

	// An empty prompt loads the highlighted saved playlist
	m = send(t, m, keyMsg("o"))
	assert.Equal(t, modeLoad, m.mode)
	require.True(t, m.playlistView.ShowingSaved)
	m = send(t, m, keyMsg("enter"))
	assert.False(t, m.statusErr, m.status)
	assert.Len(t, m.snap.Songs, 2)
	assert.False(t, m.playlistView.ShowingSaved)
	assert.Contains(t, m.View(), "📋 mix")
	assert.NotContains(t, m.View(), "📋 road")
}

func TestModel_LoadMissingReportsError(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(t, m, keyMsg("o"))
	m = typeText(t, m, "nope")
	m = send(t, m, keyMsg("enter"))
	assert.True(t, m.statusErr)
}

func TestModel_PromptEscape(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(t, m, keyMsg("w"))
	m = typeText(t, m, "abc")
	m = send(t, m, keyMsg("esc"))
	assert.Equal(t, modeNormal, m.mode)
	assert.False(t, m.input.Focused())
}

func TestModel_BrowseAddsFolder(t *testing.T) {
	m, _, _ := newTestModel(t)

	dir := m.browser.CurrentPath
	for _, name := range []string{"one.mp3", "two.flac", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	m.browser.Navigate(dir)

	m = send(t, m, keyMsg("a"))
	assert.Equal(t, modeBrowse, m.mode)

	m = send(t, m, keyMsg("a"))
	assert.Equal(t, "Added 2 song(s)", m.status)
	assert.Len(t, m.snap.Songs, 2)

	m = send(t, m, keyMsg("esc"))
	assert.Equal(t, modeNormal, m.mode)
}

func TestModel_SeekAndVolumeKeys(t *testing.T) {
	m, sess, _ := newTestModel(t)
	_, err := sess.AddPaths(context.Background(), "/m/A.mp3")
	require.NoError(t, err)
	m = sync(t, m)

	m = send(t, m, keyMsg("enter"))
	m = send(t, m, keyMsg("5"))
	assert.False(t, m.statusErr, m.status)

	before := m.snap.Volume
	m = send(t, m, keyMsg("-"))
	assert.InDelta(t, before-volumeStep, m.snap.Volume, 1e-9)
	m = send(t, m, keyMsg("="))
	assert.InDelta(t, before, m.snap.Volume, 1e-9)
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Nothing selected")

	m = send(t, m, keyMsg("a"))
	assert.Contains(t, m.View(), "Files: 0")
}

func TestModel_Help(t *testing.T) {
	m, _, _ := newTestModel(t)
	help := m.playerView.Help
	assert.Contains(t, help, "space")
	assert.Contains(t, help, "pause")
	assert.Contains(t, help, "quit")
}
