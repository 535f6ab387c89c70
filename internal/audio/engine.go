package audio

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/jscyril/playlist_manager/api"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/rs/zerolog"
)

// Ensure AudioEngine implements Player interface at compile time
var _ api.Player = (*AudioEngine)(nil)

const finishedBufferSize = 8

// AudioEngine plays one track at a time through the beep speaker.
//
// Lock order is e.mu then the speaker lock. The end-of-track callback runs on the
// speaker goroutine with the speaker lock held, so it only touches atomics and the
// finished channel.
type AudioEngine struct {
	mu         sync.Mutex
	state      *api.PlaybackState
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	sampleRate beep.SampleRate
	started    bool

	generation  atomic.Uint64
	finishedGen atomic.Uint64
	finished    chan api.TrackFinished

	logger zerolog.Logger
}

// NewAudioEngine creates a new audio engine instance
func NewAudioEngine(sampleRate int, volume float64, logger zerolog.Logger) *AudioEngine {
	return &AudioEngine{
		state: &api.PlaybackState{
			Status: api.StatusStopped,
			Volume: volume,
		},
		sampleRate: beep.SampleRate(sampleRate),
		finished:   make(chan api.TrackFinished, finishedBufferSize),
		logger:     logger.With().Str("component", "audio").Logger(),
	}
}

// Start opens the output device. The owner releases it with Close.
func (e *AudioEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/10)); err != nil {
		return playerrors.NewPlayerError("speaker_init", "", err)
	}
	e.started = true
	e.logger.Debug().Int("sample_rate", int(e.sampleRate)).Msg("Speaker initialized")
	return nil
}

// Close stops playback and releases the loaded track
func (e *AudioEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.started = false
	return nil
}

// Finished returns the end-of-track notification channel
func (e *AudioEngine) Finished() <-chan api.TrackFinished {
	return e.finished
}

// Generation identifies the most recent Load. It changes on every Load and Stop.
func (e *AudioEngine) Generation() uint64 {
	return e.generation.Load()
}

// ReadDuration decodes the file header and reports the track length
func (e *AudioEngine) ReadDuration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, playerrors.NewPlayerError("duration", path, err)
	}

	streamer, format, err := DecodeAudio(file, path)
	if err != nil {
		file.Close()
		return 0, playerrors.NewPlayerError("duration", path, err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// Load decodes path and makes it the current track. The previous track keeps
// playing if decoding fails.
func (e *AudioEngine) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return playerrors.NewPlayerError("open", path, err)
	}

	streamer, format, err := DecodeAudio(file, path)
	if err != nil {
		file.Close()
		return playerrors.NewPlayerError("decode", path, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.streamer = streamer
	e.format = format
	e.state.Path = path
	e.state.Position = 0
	e.state.Generation = e.generation.Load()

	e.logger.Debug().
		Str("path", path).
		Uint64("generation", e.state.Generation).
		Msg("Track loaded")
	return nil
}

// Play starts the loaded track from its current position
func (e *AudioEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return playerrors.ErrNothingLoaded
	}
	if e.ctrl != nil {
		e.setPausedLocked(false)
		return nil
	}

	var s beep.Streamer = e.streamer
	if e.format.SampleRate != e.sampleRate {
		s = beep.Resample(4, e.format.SampleRate, e.sampleRate, s)
	}

	gen := e.generation.Load()
	path := e.state.Path

	e.ctrl = &beep.Ctrl{Streamer: s, Paused: false}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   gain(e.state.Volume),
		Silent:   e.state.Volume == 0,
	}
	e.state.Status = api.StatusPlaying

	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		e.signalFinished(path, gen)
	})))
	return nil
}

// signalFinished runs on the speaker goroutine
func (e *AudioEngine) signalFinished(path string, gen uint64) {
	if e.generation.Load() != gen {
		return
	}
	e.finishedGen.Store(gen)

	select {
	case e.finished <- api.TrackFinished{Path: path, Generation: gen}:
	default:
		e.logger.Warn().Uint64("generation", gen).Msg("Finished channel full, dropping event")
	}
}

// Pause pauses playback
func (e *AudioEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return playerrors.ErrNothingLoaded
	}
	e.setPausedLocked(true)
	return nil
}

// Resume resumes playback
func (e *AudioEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return playerrors.ErrNothingLoaded
	}
	e.setPausedLocked(false)
	return nil
}

func (e *AudioEngine) setPausedLocked(paused bool) {
	speaker.Lock()
	e.ctrl.Paused = paused
	speaker.Unlock()

	if paused {
		e.state.Status = api.StatusPaused
	} else {
		e.state.Status = api.StatusPlaying
	}
}

// Stop stops playback and unloads the track
func (e *AudioEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	return nil
}

// stopLocked stops the current playback. Bumping the generation first makes a
// callback racing with speaker.Clear a no-op.
func (e *AudioEngine) stopLocked() {
	e.generation.Add(1)

	if e.started {
		speaker.Clear()
	}
	if e.streamer != nil {
		if err := e.streamer.Close(); err != nil {
			e.logger.Debug().Err(err).Str("path", e.state.Path).Msg("Close streamer")
		}
		e.streamer = nil
	}
	e.ctrl = nil
	e.volume = nil
	e.state.Status = api.StatusStopped
	e.state.Position = 0
	e.state.Path = ""
}

// Seek moves the playhead, clamped to the track bounds
func (e *AudioEngine) Seek(position time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return playerrors.ErrNothingLoaded
	}

	n := e.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}
	if length := e.streamer.Len(); length > 0 && n >= length {
		n = length - 1
	}

	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return playerrors.NewPlayerError("seek", e.state.Path, err)
	}

	e.state.Position = e.format.SampleRate.D(n)
	return nil
}

// SetVolume sets the volume level (0.0 to 1.0)
func (e *AudioEngine) SetVolume(level float64) error {
	if level < 0 || level > 1 {
		return playerrors.ErrInvalidVolume
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Volume = level
	if e.volume != nil {
		speaker.Lock()
		e.volume.Volume = gain(level)
		e.volume.Silent = level == 0
		speaker.Unlock()
	}
	return nil
}

// Position returns the playhead of the loaded track
func (e *AudioEngine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.positionLocked()
}

func (e *AudioEngine) positionLocked() time.Duration {
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos)
}

// GetState returns a copy of the current playback state
func (e *AudioEngine) GetState() *api.PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := *e.state
	state.Position = e.positionLocked()
	state.Generation = e.generation.Load()
	if state.Status != api.StatusStopped && e.finishedGen.Load() == state.Generation {
		state.Status = api.StatusStopped
	}
	return &state
}

// gain maps a 0..1 level onto the exponent used by effects.Volume with base 2
func gain(level float64) float64 {
	return level*2 - 1
}
