// Package session serializes all playlist and playback commands onto one
// goroutine. File I/O runs on the calling goroutine; only the in-memory
// changes are handed to the loop.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/playback"
	"github.com/jscyril/playlist_manager/internal/playlist"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a consistent view of the playlist and playback state
type Snapshot struct {
	Songs    []*api.Song
	Current  int // -1 when nothing is selected
	State    playback.State
	Paused   bool
	Progress float64
	Position time.Duration
	Volume   float64
}

// CurrentSong returns the selected entry, or nil
func (s Snapshot) CurrentSong() *api.Song {
	if s.Current < 0 || s.Current >= len(s.Songs) {
		return nil
	}
	return s.Songs[s.Current]
}

// Session owns a playback controller and runs its commands one at a time
type Session struct {
	ctrl    *playback.Controller
	scanner *playlist.Scanner
	cmds    chan func()
	done    chan struct{}
	logger  zerolog.Logger
}

// New creates a session. Run must be called for commands to execute.
func New(ctrl *playback.Controller, scanner *playlist.Scanner, logger zerolog.Logger) *Session {
	return &Session{
		ctrl:    ctrl,
		scanner: scanner,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// Run executes commands until ctx is done. Playback is stopped on exit.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.logger.Debug().Msg("Session loop started")

	for {
		select {
		case <-ctx.Done():
			if err := s.ctrl.Stop(); err != nil {
				s.logger.Warn().Err(err).Msg("Stop on shutdown")
			}
			return ctx.Err()
		case fn := <-s.cmds:
			fn()
		}
	}
}

// Serve runs the command loop together with a bridge feeding it the
// engine's end-of-track notifications. It returns nil on cancellation.
func (s *Session) Serve(ctx context.Context, finished <-chan api.TrackFinished, pollInterval time.Duration) error {
	bridge := playback.NewBridge(finished, pollInterval, s.TrackFinished, s.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(ctx) })
	g.Go(func() error { return bridge.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Done is closed once Run has returned
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// do runs fn on the loop and waits for its result
func (s *Session) do(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	cmd := func() { errc <- fn() }

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return playerrors.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddPaths adds files, expanding directories, and returns how many songs were added
func (s *Session) AddPaths(ctx context.Context, paths ...string) (int, error) {
	songs, err := s.scanner.Scan(ctx, paths)
	if err != nil {
		return 0, err
	}
	err = s.do(ctx, func() error {
		s.ctrl.Add(songs...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(songs), nil
}

// RemoveAt removes the entry at index
func (s *Session) RemoveAt(ctx context.Context, index int) (*api.Song, error) {
	var removed *api.Song
	err := s.do(ctx, func() error {
		var err error
		removed, err = s.ctrl.RemoveAt(index)
		return err
	})
	return removed, err
}

func (s *Session) Shuffle(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.ctrl.Shuffle()
		return nil
	})
}

// Save writes the current playlist to path
func (s *Session) Save(ctx context.Context, path string) error {
	var songs []*api.Song
	err := s.do(ctx, func() error {
		songs = s.ctrl.Songs()
		return nil
	})
	if err != nil {
		return err
	}
	return playlist.WriteFile(path, songs)
}

// Load replaces the playlist with the one stored at path. The file is read
// and measured before anything changes, so a failed load leaves the session as it was.
func (s *Session) Load(ctx context.Context, path string) error {
	songs, err := s.scanner.Load(ctx, path)
	if err != nil {
		return err
	}
	return s.do(ctx, func() error {
		s.ctrl.Replace(songs)
		return nil
	})
}

func (s *Session) Play(ctx context.Context, index int) error {
	return s.do(ctx, func() error { return s.ctrl.Play(index) })
}

func (s *Session) PlayAll(ctx context.Context) error {
	return s.do(ctx, s.ctrl.PlayAll)
}

func (s *Session) Stop(ctx context.Context) error {
	return s.do(ctx, s.ctrl.Stop)
}

func (s *Session) TogglePause(ctx context.Context) error {
	return s.do(ctx, s.ctrl.TogglePause)
}

func (s *Session) Next(ctx context.Context) error {
	return s.do(ctx, s.ctrl.Next)
}

func (s *Session) Previous(ctx context.Context) error {
	return s.do(ctx, s.ctrl.Previous)
}

// SeekFraction seeks to f of the selected song's duration
func (s *Session) SeekFraction(ctx context.Context, f float64) error {
	return s.do(ctx, func() error { return s.ctrl.SeekFraction(f) })
}

// SeekBy moves the playhead by delta, a fraction of the duration
func (s *Session) SeekBy(ctx context.Context, delta float64) error {
	return s.do(ctx, func() error { return s.ctrl.SeekBy(delta) })
}

func (s *Session) SetVolume(ctx context.Context, level float64) error {
	return s.do(ctx, func() error { return s.ctrl.SetVolume(level) })
}

// AdjustVolume changes the volume by delta, clamped to [0,1]
func (s *Session) AdjustVolume(ctx context.Context, delta float64) error {
	return s.do(ctx, func() error {
		level := min(max(s.ctrl.Volume()+delta, 0), 1)
		return s.ctrl.SetVolume(level)
	})
}

// TrackFinished hands an end-of-track notification to the controller
func (s *Session) TrackFinished(ctx context.Context, ev api.TrackFinished) error {
	return s.do(ctx, func() error { return s.ctrl.OnTrackFinished(ev) })
}

// Snapshot returns the current playlist and playback state
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() error {
		current, ok := s.ctrl.CurrentIndex()
		if !ok {
			current = -1
		}
		snap = Snapshot{
			Songs:    s.ctrl.Songs(),
			Current:  current,
			State:    s.ctrl.State(),
			Paused:   s.ctrl.Paused(),
			Progress: s.ctrl.Progress(),
			Position: s.ctrl.Position(),
			Volume:   s.ctrl.Volume(),
		}
		return nil
	})
	return snap, err
}
