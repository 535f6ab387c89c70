package api

import "time"

// Song is a single playlist entry. It is never mutated after construction.
type Song struct {
	ID       string        `json:"-"`
	Title    string        `json:"title"`
	FilePath string        `json:"file_path"`
	Duration time.Duration `json:"-"`
}

func (s Song) String() string {
	return s.Title
}

// PlaybackStatus mirrors what the audio engine is doing
type PlaybackStatus int

const (
	StatusStopped PlaybackStatus = iota
	StatusPlaying
	StatusPaused
)

func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlaybackState is a point-in-time view of the audio engine
type PlaybackState struct {
	Status     PlaybackStatus
	Path       string
	Position   time.Duration
	Volume     float64
	Generation uint64
}

// TrackFinished is emitted once when a loaded track plays to its end.
// Generation identifies the Load call that produced the track.
type TrackFinished struct {
	Path       string
	Generation uint64
}

// Player is the audio engine contract consumed by the playback controller
type Player interface {
	ReadDuration(path string) (time.Duration, error)
	Load(path string) error
	Play() error
	Pause() error
	Resume() error
	Stop() error
	Seek(position time.Duration) error
	SetVolume(level float64) error
	Position() time.Duration
	Generation() uint64
	GetState() *PlaybackState
	Finished() <-chan TrackFinished
}

// EventType identifies events published on the event bus
type EventType int

const (
	EventTrackStarted EventType = iota
	EventTrackEnded
	EventStateChange
	EventPlaylistChange
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	case EventStateChange:
		return "state_change"
	case EventPlaylistChange:
		return "playlist_change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// AudioEvent is a notification from the playback layer.
// Payload depends on Type: *Song for track events, error for EventError, nil otherwise.
type AudioEvent struct {
	Type    EventType
	Payload any
}
