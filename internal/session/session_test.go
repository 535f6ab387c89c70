package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jscyril/playlist_manager/internal/audio"
	"github.com/jscyril/playlist_manager/internal/playback"
	"github.com/jscyril/playlist_manager/internal/playlist"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exists(string) (os.FileInfo, error) { return nil, nil }

func startSession(t *testing.T) (*Session, *audio.Mock) {
	t.Helper()

	mock := audio.NewMock()
	scanner := playlist.NewScanner(2, mock, zerolog.Nop())
	store := playlist.NewStore(scanner, zerolog.Nop())
	ctrl := playback.NewController(store, mock, zerolog.Nop(), playback.WithStat(exists))
	s := New(ctrl, scanner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, mock.Finished(), time.Millisecond) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("session did not stop")
		}
	})
	return s, mock
}

func snapshot(t *testing.T, s *Session) Snapshot {
	t.Helper()
	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

func TestSession_Scenario(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()

	n, err := s.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3", "/m/C.mp3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap := snapshot(t, s)
	assert.Equal(t, -1, snap.Current)
	assert.Equal(t, playback.Idle, snap.State)
	assert.Nil(t, snap.CurrentSong())

	require.NoError(t, s.Play(ctx, 0))
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Next(ctx))
	assert.Equal(t, 2, snapshot(t, s).Current)

	require.NoError(t, s.Previous(ctx))
	snap = snapshot(t, s)
	assert.Equal(t, 1, snap.Current)
	assert.Equal(t, "B.mp3", snap.CurrentSong().Title)

	require.NoError(t, s.TogglePause(ctx))
	snap = snapshot(t, s)
	assert.True(t, snap.Paused)
	assert.Equal(t, playback.Paused, snap.State)

	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, playback.Idle, snapshot(t, s).State)
}

func TestSession_ErrorsAreReturned(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.PlayAll(ctx), playerrors.ErrEmptyPlaylist)
	assert.ErrorIs(t, s.TogglePause(ctx), playerrors.ErrNoSelection)

	_, err := s.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Play(ctx, 5), playerrors.ErrIndexOutOfRange)

	_, err = s.RemoveAt(ctx, 9)
	assert.ErrorIs(t, err, playerrors.ErrIndexOutOfRange)
	assert.Len(t, snapshot(t, s).Songs, 2)
}

func TestSession_TrackFinishedAdvancesThroughBridge(t *testing.T) {
	s, mock := startSession(t)
	ctx := context.Background()

	_, err := s.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3")
	require.NoError(t, err)
	require.NoError(t, s.PlayAll(ctx))

	mock.SimulateFinished()
	assert.Eventually(t, func() bool {
		return snapshot(t, s).Current == 1
	}, time.Second, 5*time.Millisecond)

	mock.SimulateFinished()
	assert.Eventually(t, func() bool {
		return snapshot(t, s).State == playback.Idle
	}, time.Second, 5*time.Millisecond)
}

func TestSession_SaveLoad(t *testing.T) {
	s, mock := startSession(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.json")

	mock.SetDuration("/m/B.mp3", 4*time.Minute)
	_, err := s.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, path))

	_, err = s.RemoveAt(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, s.Play(ctx, 0))

	require.NoError(t, s.Load(ctx, path))
	snap := snapshot(t, s)
	require.Len(t, snap.Songs, 2)
	assert.Equal(t, "A.mp3", snap.Songs[0].Title)
	assert.Equal(t, 4*time.Minute, snap.Songs[1].Duration)
	assert.Equal(t, playback.Idle, snap.State)

	err = s.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, playerrors.ErrFileMissing)
	assert.Len(t, snapshot(t, s).Songs, 2)
}

func TestSession_SeekAndVolume(t *testing.T) {
	s, mock := startSession(t)
	ctx := context.Background()

	mock.SetDuration("/m/A.mp3", 100*time.Second)
	_, err := s.AddPaths(ctx, "/m/A.mp3")
	require.NoError(t, err)
	require.NoError(t, s.Play(ctx, 0))

	require.NoError(t, s.SeekFraction(ctx, 0.5))
	assert.InDelta(t, 0.5, snapshot(t, s).Progress, 1e-9)

	require.NoError(t, s.SeekBy(ctx, 0.1))
	assert.InDelta(t, float64(60*time.Second), float64(snapshot(t, s).Position), float64(time.Millisecond))

	require.NoError(t, s.SetVolume(ctx, 0.9))
	require.NoError(t, s.AdjustVolume(ctx, 0.5))
	assert.InDelta(t, 1.0, snapshot(t, s).Volume, 1e-9)
	assert.ErrorIs(t, s.SetVolume(ctx, 3), playerrors.ErrInvalidVolume)
}

func TestSession_SeekByUnknownDurationKeepsPosition(t *testing.T) {
	s, mock := startSession(t)
	ctx := context.Background()

	mock.SetDurationError("/m/A.mp3", assert.AnError)
	_, err := s.AddPaths(ctx, "/m/A.mp3")
	require.NoError(t, err)
	require.NoError(t, s.Play(ctx, 0))
	require.Zero(t, snapshot(t, s).CurrentSong().Duration)

	mock.SetPosition(90 * time.Second)
	require.NoError(t, s.SeekBy(ctx, 0.05))
	require.NoError(t, s.SeekBy(ctx, -0.05))

	assert.Empty(t, mock.SeekCalls())
	assert.Equal(t, 90*time.Second, snapshot(t, s).Position)
}

func TestSession_LoadFailureKeepsPlayback(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()

	_, err := s.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3")
	require.NoError(t, err)
	require.NoError(t, s.Play(ctx, 1))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"X"}]`), 0644))
	assert.ErrorIs(t, s.Load(ctx, path), playerrors.ErrCorruptPlaylist)

	err = s.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, playerrors.ErrFileMissing)

	snap := snapshot(t, s)
	assert.Equal(t, playback.Playing, snap.State)
	assert.Equal(t, 1, snap.Current)
	assert.Len(t, snap.Songs, 2)
}

func TestSession_Shuffle(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()

	_, err := s.AddPaths(ctx, "/m/A.mp3", "/m/B.mp3", "/m/C.mp3")
	require.NoError(t, err)
	require.NoError(t, s.Play(ctx, 2))

	require.NoError(t, s.Shuffle(ctx))
	snap := snapshot(t, s)
	assert.Len(t, snap.Songs, 3)
	assert.Equal(t, "C.mp3", snap.CurrentSong().Title)
}

func TestSession_ClosedAfterCancel(t *testing.T) {
	mock := audio.NewMock()
	scanner := playlist.NewScanner(1, mock, zerolog.Nop())
	store := playlist.NewStore(scanner, zerolog.Nop())
	s := New(playback.NewController(store, mock, zerolog.Nop()), scanner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)

	<-s.Done()
	assert.ErrorIs(t, s.Stop(context.Background()), playerrors.ErrSessionClosed)
}
