// Package playback tracks which playlist entry is selected and drives the
// audio engine as the selection moves.
package playback

import (
	"errors"
	"os"
	"time"

	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/playlist"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/jscyril/playlist_manager/pkg/events"
	"github.com/rs/zerolog"
)

// seekMargin keeps a clamped seek strictly inside the track
const seekMargin = 10 * time.Millisecond

// Controller is the playback state machine. It owns the store so that every
// mutation can keep the selection valid. Not safe for concurrent use.
type Controller struct {
	store  *playlist.Store
	player api.Player
	bus    *events.EventBus
	stat   func(string) (os.FileInfo, error)
	logger zerolog.Logger

	current    *api.Song
	paused     bool
	generation uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithEventBus publishes state changes on bus
func WithEventBus(bus *events.EventBus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

// WithStat replaces the file existence check done before playback
func WithStat(stat func(string) (os.FileInfo, error)) Option {
	return func(c *Controller) {
		c.stat = stat
	}
}

// NewController creates a controller in the Idle state
func NewController(store *playlist.Store, player api.Player, logger zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		player: player,
		stat:   os.Stat,
		logger: logger.With().Str("component", "controller").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports Idle, Playing or Paused
func (c *Controller) State() State {
	switch {
	case c.current == nil:
		return Idle
	case c.paused:
		return Paused
	default:
		return Playing
	}
}

// Current returns the selected entry, or nil
func (c *Controller) Current() *api.Song {
	return c.current
}

// CurrentIndex returns the position of the selected entry
func (c *Controller) CurrentIndex() (int, bool) {
	if c.current == nil {
		return -1, false
	}
	i := c.store.IndexOf(c.current)
	return i, i >= 0
}

func (c *Controller) Paused() bool {
	return c.current != nil && c.paused
}

// Position returns the playhead of the selected entry
func (c *Controller) Position() time.Duration {
	if c.current == nil {
		return 0
	}
	return c.player.Position()
}

// Progress returns position / duration in [0,1]. It is 0 with no selection
// or when the duration is unknown.
func (c *Controller) Progress() float64 {
	if c.current == nil || c.current.Duration <= 0 {
		return 0
	}
	p := float64(c.player.Position()) / float64(c.current.Duration)
	return min(max(p, 0), 1)
}

// Volume returns the engine output level
func (c *Controller) Volume() float64 {
	return c.player.GetState().Volume
}

// Songs returns the playlist in playback order
func (c *Controller) Songs() []*api.Song {
	return c.store.Songs()
}

// Play loads and starts entry index. On failure the previous state, and any
// playback already running, is kept.
func (c *Controller) Play(index int) error {
	song, ok := c.store.At(index)
	if !ok {
		return &playerrors.IndexError{Index: index, Len: c.store.Len()}
	}

	if _, err := c.stat(song.FilePath); err != nil {
		c.logger.Warn().Err(err).Str("path", song.FilePath).Msg("Song file missing")
		return playerrors.NewPlayerError("play", song.FilePath, playerrors.ErrSongNotFound)
	}

	if err := c.player.Load(song.FilePath); err != nil {
		return err
	}
	if err := c.player.Play(); err != nil {
		c.clear()
		return playerrors.NewPlayerError("play", song.FilePath, err)
	}

	c.current = song
	c.paused = false
	c.generation = c.player.Generation()

	c.logger.Info().Str("title", song.Title).Int("index", index).Msg("Playing")
	c.emit(api.EventTrackStarted, song)
	c.emit(api.EventStateChange, nil)
	return nil
}

// PlayAll starts from the first entry. An empty playlist yields the
// informational ErrEmptyPlaylist.
func (c *Controller) PlayAll() error {
	if c.store.Len() == 0 {
		return playerrors.ErrEmptyPlaylist
	}
	return c.Play(0)
}

// Stop halts the engine and clears the selection
func (c *Controller) Stop() error {
	return c.clear()
}

// clear stops the engine unconditionally and goes Idle
func (c *Controller) clear() error {
	err := c.player.Stop()
	if err != nil {
		c.logger.Error().Err(err).Msg("Engine stop failed")
	}

	wasActive := c.current != nil
	c.current = nil
	c.paused = false
	c.generation = 0
	if wasActive {
		c.emit(api.EventStateChange, nil)
	}
	return err
}

// TogglePause switches between Playing and Paused
func (c *Controller) TogglePause() error {
	if c.current == nil {
		return playerrors.ErrNoSelection
	}

	if c.paused {
		if err := c.player.Resume(); err != nil {
			return playerrors.NewPlayerError("resume", c.current.FilePath, err)
		}
	} else {
		if err := c.player.Pause(); err != nil {
			return playerrors.NewPlayerError("pause", c.current.FilePath, err)
		}
	}
	c.paused = !c.paused
	c.emit(api.EventStateChange, nil)
	return nil
}

// Next plays the following entry. At the last entry it does nothing.
func (c *Controller) Next() error {
	i, ok := c.CurrentIndex()
	if !ok {
		return playerrors.ErrNoSelection
	}
	if i+1 >= c.store.Len() {
		return nil
	}
	return c.Play(i + 1)
}

// Previous plays the preceding entry. At the first entry it does nothing.
func (c *Controller) Previous() error {
	i, ok := c.CurrentIndex()
	if !ok {
		return playerrors.ErrNoSelection
	}
	if i == 0 {
		return nil
	}
	return c.Play(i - 1)
}

// Seek moves the playhead to target, clamped to [0, duration)
func (c *Controller) Seek(target time.Duration) error {
	if c.current == nil {
		return playerrors.ErrNoSelection
	}

	d := c.current.Duration
	switch {
	case target < 0 || d <= 0:
		target = 0
	case target >= d:
		target = max(d-seekMargin, 0)
	}

	if err := c.player.Seek(target); err != nil {
		return playerrors.NewPlayerError("seek", c.current.FilePath, err)
	}
	return nil
}

// SeekFraction seeks to f * duration with f clamped into [0,1)
func (c *Controller) SeekFraction(f float64) error {
	if c.current == nil {
		return playerrors.ErrNoSelection
	}
	f = min(max(f, 0), 1)
	return c.Seek(time.Duration(f * float64(c.current.Duration)))
}

// SeekBy moves the playhead by delta, a fraction of the duration. Without a
// known duration there is nothing to measure delta against, so the playhead
// is left where it is.
func (c *Controller) SeekBy(delta float64) error {
	if c.current == nil {
		return playerrors.ErrNoSelection
	}
	if c.current.Duration <= 0 {
		return nil
	}
	return c.SeekFraction(c.Progress() + delta)
}

// SetVolume sets the engine output level (0.0 to 1.0)
func (c *Controller) SetVolume(level float64) error {
	return c.player.SetVolume(level)
}

// OnTrackFinished advances to the next entry when the selected track ends.
// At the end of the list, or when the next entry cannot be played, playback
// stops. Events from an earlier Load are ignored.
func (c *Controller) OnTrackFinished(ev api.TrackFinished) error {
	if c.current == nil || ev.Generation != c.generation {
		c.logger.Debug().
			Uint64("generation", ev.Generation).
			Uint64("current", c.generation).
			Msg("Ignoring stale track end")
		return nil
	}

	finished := c.current
	c.emit(api.EventTrackEnded, finished)

	i, _ := c.CurrentIndex()
	if i+1 >= c.store.Len() {
		c.logger.Info().Msg("End of playlist")
		return c.clear()
	}

	if err := c.Play(i + 1); err != nil {
		c.logger.Warn().Err(err).Msg("Could not advance, stopping")
		c.emit(api.EventError, err)
		return errors.Join(err, c.clear())
	}
	return nil
}

// Add appends songs to the playlist
func (c *Controller) Add(songs ...*api.Song) {
	if len(songs) == 0 {
		return
	}
	c.store.Add(songs...)
	c.emit(api.EventPlaylistChange, nil)
}

// RemoveAt removes entry index. Removing the selected entry stops playback.
func (c *Controller) RemoveAt(index int) (*api.Song, error) {
	removed, ok := c.store.RemoveAt(index)
	if !ok {
		return nil, &playerrors.IndexError{Index: index, Len: c.store.Len()}
	}

	if removed == c.current && c.store.IndexOf(removed) < 0 {
		c.logger.Info().Str("title", removed.Title).Msg("Removed the playing song")
		c.clear()
	}
	c.emit(api.EventPlaylistChange, nil)
	return removed, nil
}

// Shuffle randomizes the order. The selection stays on the same entry.
func (c *Controller) Shuffle() {
	c.store.Shuffle()
	c.emit(api.EventPlaylistChange, nil)
}

// Replace swaps in a new playlist, stopping any playback first
func (c *Controller) Replace(songs []*api.Song) {
	if c.current != nil {
		c.clear()
	}
	c.store.Replace(songs)
	c.emit(api.EventPlaylistChange, nil)
}

func (c *Controller) emit(t api.EventType, payload any) {
	if c.bus != nil {
		c.bus.Emit(t, payload)
	}
}
