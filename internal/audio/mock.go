package audio

import (
	"sync"
	"time"

	"github.com/jscyril/playlist_manager/api"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
)

// Mock is a test double for api.Player.
type Mock struct {
	mu         sync.Mutex
	status     api.PlaybackStatus
	path       string
	position   time.Duration
	volume     float64
	generation uint64
	durations  map[string]time.Duration
	lengthErrs map[string]error
	loadErrs   map[string]error
	loadCalls  []string
	seekCalls  []time.Duration
	stopCalls  int
	finishedCh chan api.TrackFinished
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		status:     api.StatusStopped,
		volume:     0.5,
		durations:  make(map[string]time.Duration),
		lengthErrs: make(map[string]error),
		loadErrs:   make(map[string]error),
		finishedCh: make(chan api.TrackFinished, finishedBufferSize),
	}
}

func (m *Mock) ReadDuration(path string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.lengthErrs[path]; err != nil {
		return 0, err
	}
	return m.durations[path], nil
}

func (m *Mock) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadCalls = append(m.loadCalls, path)
	if err := m.loadErrs[path]; err != nil {
		return err
	}
	m.generation++
	m.path = path
	m.position = 0
	m.status = api.StatusStopped
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return playerrors.ErrNothingLoaded
	}
	m.status = api.StatusPlaying
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return playerrors.ErrNothingLoaded
	}
	m.status = api.StatusPaused
	return nil
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return playerrors.ErrNothingLoaded
	}
	m.status = api.StatusPlaying
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopCalls++
	m.generation++
	m.path = ""
	m.position = 0
	m.status = api.StatusStopped
	return nil
}

func (m *Mock) Seek(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return playerrors.ErrNothingLoaded
	}
	m.seekCalls = append(m.seekCalls, position)
	m.position = position
	return nil
}

func (m *Mock) SetVolume(level float64) error {
	if level < 0 || level > 1 {
		return playerrors.ErrInvalidVolume
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume = level
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

func (m *Mock) GetState() *api.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &api.PlaybackState{
		Status:     m.status,
		Path:       m.path,
		Position:   m.position,
		Volume:     m.volume,
		Generation: m.generation,
	}
}

func (m *Mock) Finished() <-chan api.TrackFinished {
	return m.finishedCh
}

// Test helpers

func (m *Mock) SetDuration(path string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[path] = d
}

func (m *Mock) SetDurationError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lengthErrs[path] = err
}

func (m *Mock) SetLoadError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrs[path] = err
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// SimulateFinished reports the loaded track as played to its end.
func (m *Mock) SimulateFinished() api.TrackFinished {
	m.mu.Lock()
	ev := api.TrackFinished{Path: m.path, Generation: m.generation}
	m.status = api.StatusStopped
	m.mu.Unlock()

	select {
	case m.finishedCh <- ev:
	default:
	}
	return ev
}

// Verify Mock implements api.Player at compile time.
var _ api.Player = (*Mock)(nil)
