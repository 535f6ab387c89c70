package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/config"
	"github.com/jscyril/playlist_manager/internal/playlist"
	"github.com/jscyril/playlist_manager/internal/session"
	"github.com/jscyril/playlist_manager/internal/ui/components"
	"github.com/jscyril/playlist_manager/internal/ui/views"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/jscyril/playlist_manager/pkg/events"
	"github.com/rs/zerolog"
)

const (
	tickInterval = 250 * time.Millisecond
	seekStep     = 0.05
	volumeStep   = 0.1
)

// mode is what the keyboard currently drives
type mode int

const (
	modeNormal mode = iota
	modeBrowse
	modeSave
	modeLoad
)

// Options wires the UI to a running session
type Options struct {
	Session  *session.Session
	Manager  *playlist.Manager
	Bus      *events.EventBus
	Keys     config.KeyMap
	MusicDir string
	// Name shown as the playlist title
	Name   string
	Logger zerolog.Logger
}

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	mode mode

	// Views
	playerView   views.PlayerView
	playlistView views.PlaylistView
	browser      components.FileBrowser
	input        components.TextInput

	// Collaborators
	ctx     context.Context
	session *session.Session
	manager *playlist.Manager
	events  <-chan api.AudioEvent
	keys    keyMap
	help    help.Model
	logger  zerolog.Logger

	// State
	snap      session.Snapshot
	status    string
	statusErr bool

	// Styles
	headerStyle lipgloss.Style
}

// tickMsg is sent periodically to refresh the playhead
type tickMsg time.Time

// snapshotMsg carries fresh session state
type snapshotMsg struct {
	snap session.Snapshot
	err  error
}

// eventMsg is a notification from the event bus
type eventMsg api.AudioEvent

// resultMsg reports the outcome of a command
type resultMsg struct {
	text string
	err  error
	name string // playlist now shown, set by save and load
}

// savedMsg carries the saved playlist listing
type savedMsg struct {
	saved []playlist.Info
	err   error
}

// NewModel creates a new application model
func NewModel(ctx context.Context, opts Options) Model {
	m := Model{
		width:   80,
		height:  24,
		ctx:     ctx,
		session: opts.Session,
		manager: opts.Manager,
		keys:    newKeyMap(opts.Keys),
		help:    help.New(),
		logger:  opts.Logger.With().Str("component", "ui").Logger(),
		snap:    session.Snapshot{Current: -1},
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
	}
	if opts.Bus != nil {
		m.events = opts.Bus.SubscribeAll()
	}

	m.playerView = views.NewPlayerView(m.width, 9)
	m.help.ShowAll = true
	m.playerView.Help = m.help.View(m.keys)
	m.playlistView = views.NewPlaylistView(m.width, m.height-11)
	if opts.Name != "" {
		m.playlistView.SongList.Title = "📋 " + opts.Name
	}
	m.browser = components.NewFileBrowser(opts.MusicDir, m.width, m.height)
	m.input = components.NewTextInput(m.width - 8)

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.refresh(),
		m.listenForEvents(),
	)
}

// tickCmd returns a command that ticks every tickInterval
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh fetches a snapshot off the UI goroutine
func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.session.Snapshot(m.ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// listenForEvents waits for the next bus event
func (m Model) listenForEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return nil
			}
			return eventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// run executes a session command and reports its result
func (m Model) run(text string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{text: text, err: fn(m.ctx)}
	}
}

func (m Model) listSaved() tea.Cmd {
	return func() tea.Msg {
		saved, err := m.manager.List()
		return savedMsg{saved: saved, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewSizes()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tickCmd())

	case snapshotMsg:
		if msg.err != nil {
			if errors.Is(msg.err, playerrors.ErrSessionClosed) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.snap = msg.snap
		m.playerView.SetSnapshot(msg.snap)
		m.playlistView.SetSongs(msg.snap.Songs, msg.snap.Current)
		return m, nil

	case eventMsg:
		if msg.Type == api.EventError {
			if err, ok := msg.Payload.(error); ok {
				m.setStatus("", err)
			}
		}
		return m, tea.Batch(m.refresh(), m.listenForEvents())

	case resultMsg:
		m.setStatus(msg.text, msg.err)
		if msg.err == nil && msg.name != "" {
			m.playlistView.SongList.Title = "📋 " + msg.name
		}
		return m, m.refresh()

	case savedMsg:
		if msg.err != nil {
			m.setStatus("", msg.err)
			return m, nil
		}
		m.playlistView.ShowSaved(msg.saved)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeBrowse:
			return m.updateBrowse(msg)
		case modeSave, modeLoad:
			return m.updatePrompt(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

func (m *Model) setStatus(text string, err error) {
	switch {
	case err == nil:
		m.status, m.statusErr = text, false
	case playerrors.IsInformational(err):
		m.status, m.statusErr = err.Error(), false
	default:
		m.status, m.statusErr = err.Error(), true
		m.logger.Debug().Err(err).Msg("command failed")
	}
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if r := msg.Runes; msg.Type == tea.KeyRunes && len(r) == 1 && r[0] >= '0' && r[0] <= '9' {
		f := float64(r[0]-'0') / 10
		return m, m.run("", func(ctx context.Context) error { return m.session.SeekFraction(ctx, f) })
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Play):
		index := m.playlistView.SelectedSong()
		return m, m.run("", func(ctx context.Context) error { return m.session.Play(ctx, index) })

	case key.Matches(msg, k.PlayAll):
		return m, m.run("", m.session.PlayAll)

	case key.Matches(msg, k.PlayPause):
		return m, m.run("", m.session.TogglePause)

	case key.Matches(msg, k.Stop):
		return m, m.run("Stopped", m.session.Stop)

	case key.Matches(msg, k.Next):
		return m, m.run("", m.session.Next)

	case key.Matches(msg, k.Previous):
		return m, m.run("", m.session.Previous)

	case key.Matches(msg, k.SeekForward):
		return m, m.run("", func(ctx context.Context) error { return m.session.SeekBy(ctx, seekStep) })

	case key.Matches(msg, k.SeekBack):
		return m, m.run("", func(ctx context.Context) error { return m.session.SeekBy(ctx, -seekStep) })

	case key.Matches(msg, k.VolumeUp):
		return m, m.run("", func(ctx context.Context) error { return m.session.AdjustVolume(ctx, volumeStep) })

	case key.Matches(msg, k.VolumeDown):
		return m, m.run("", func(ctx context.Context) error { return m.session.AdjustVolume(ctx, -volumeStep) })

	case key.Matches(msg, k.Shuffle):
		return m, m.run("Shuffled", m.session.Shuffle)

	case key.Matches(msg, k.Remove):
		index := m.playlistView.SelectedSong()
		return m, func() tea.Msg {
			song, err := m.session.RemoveAt(m.ctx, index)
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{text: "Removed " + song.Title}
		}

	case key.Matches(msg, k.Add):
		m.mode = modeBrowse
		return m, nil

	case key.Matches(msg, k.Save):
		m.mode = modeSave
		m.input.Clear()
		return m, m.input.Focus()

	case key.Matches(msg, k.Load):
		m.mode = modeLoad
		m.input.Clear()
		return m, tea.Batch(m.input.Focus(), m.listSaved())
	}

	m.playlistView, _ = m.playlistView.Update(msg)
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeNormal
		return m, nil

	case "enter":
		if path := m.browser.EnterSelected(); path != "" {
			return m, m.addPaths(path)
		}
		return m, nil

	case "a":
		// Add the highlighted folder, or the one being shown
		path := m.browser.CurrentPath
		if entry := m.browser.SelectedEntry(); entry != nil && entry.IsDir && entry.Name != ".." {
			path = entry.Path
		}
		return m, m.addPaths(path)
	}

	m.browser, _ = m.browser.Update(msg)
	return m, nil
}

func (m Model) addPaths(paths ...string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.session.AddPaths(m.ctx, paths...)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{text: fmt.Sprintf("Added %d song(s)", n)}
	}
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		m.playlistView.HideSaved()
		return m, nil

	case "enter":
		target := strings.TrimSpace(m.input.Value())
		saving := m.mode == modeSave
		if target == "" && !saving {
			if info, ok := m.playlistView.SelectedSaved(); ok {
				target = info.Path
			}
		}
		m.mode = modeNormal
		m.input.Blur()
		m.playlistView.HideSaved()
		if target == "" {
			return m, nil
		}
		if saving {
			return m, m.save(target)
		}
		return m, m.load(target)

	case "up", "down":
		if m.mode == modeLoad {
			m.playlistView, _ = m.playlistView.Update(msg)
		}
		return m, nil
	}

	m.input, _ = m.input.Update(msg)
	return m, nil
}

func (m Model) save(target string) tea.Cmd {
	return func() tea.Msg {
		path := m.manager.Resolve(target)
		if filepath.Dir(path) == m.manager.Dir() {
			if err := m.manager.Ensure(); err != nil {
				return resultMsg{err: err}
			}
		}
		if err := m.session.Save(m.ctx, path); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{text: "Saved " + path, name: playlistName(path)}
	}
}

func (m Model) load(target string) tea.Cmd {
	return func() tea.Msg {
		path := m.manager.Resolve(target)
		if err := m.session.Load(m.ctx, path); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{text: "Loaded " + path, name: playlistName(path)}
	}
}

// playlistName is the file name of path without its extension
func playlistName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// updateViewSizes updates view dimensions
func (m *Model) updateViewSizes() {
	m.playerView.SetWidth(m.width)
	m.playlistView.SetSize(m.width, max(m.height-13, 6))
	m.browser.Width = m.width
	m.browser.Height = m.height
	m.input.SetWidth(m.width - 8)
	m.help.Width = m.width - 8
	m.playerView.Help = m.help.View(m.keys)
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerStyle.Render("♫ Playlist Manager"))
	sb.WriteString("\n")

	switch m.mode {
	case modeBrowse:
		sb.WriteString(m.browser.View())
	default:
		sb.WriteString(m.playerView.View())
		sb.WriteString("\n")
		sb.WriteString(m.playlistView.View())
		if m.mode == modeSave || m.mode == modeLoad {
			label := "Save playlist as:"
			if m.mode == modeLoad {
				label = "Load playlist (name or path, empty for highlighted):"
			}
			sb.WriteString("\n" + label + "\n")
			sb.WriteString(m.input.View())
		}
	}

	if m.status != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
		text := m.status
		if m.statusErr {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
			text = "Error: " + text
		}
		sb.WriteString("\n" + style.Render(text))
	}

	return sb.String()
}

// Run starts the bubbletea program and blocks until it exits
func Run(ctx context.Context, opts Options) error {
	model := NewModel(ctx, opts)
	if opts.Bus != nil {
		defer opts.Bus.Unsubscribe(model.events)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
