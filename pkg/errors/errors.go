package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrSongNotFound     = errors.New("song file not found")
	ErrFileMissing      = errors.New("playlist file not found")
	ErrEmptyPlaylist    = errors.New("no songs in the playlist to play")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNoSelection      = errors.New("no song selected")
	ErrCorruptPlaylist  = errors.New("corrupt playlist file")
	ErrInvalidFormat    = errors.New("unsupported audio format")
	ErrInvalidVolume    = errors.New("volume must be between 0.0 and 1.0")
	ErrNothingLoaded    = errors.New("no track loaded")
	ErrSessionClosed    = errors.New("session closed")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrInvalidName      = errors.New("invalid playlist name")
)

// PlayerError wraps errors with additional context
type PlayerError struct {
	Op    string // Operation that failed
	Track string // Track title or path if applicable
	Err   error  // Underlying error
}

func (e *PlayerError) Error() string {
	if e.Track != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Track, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError
func NewPlayerError(op, track string, err error) *PlayerError {
	return &PlayerError{Op: op, Track: track, Err: err}
}

// IndexError reports a position outside the playlist
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// RecordError points at the offending entry of a playlist file
type RecordError struct {
	Path   string
	Record int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record %d: %v", e.Path, e.Record, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ScanError records a path that could not be read while expanding directories
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsInformational reports whether err is a status message rather than a failure
func IsInformational(err error) bool {
	return errors.Is(err, ErrEmptyPlaylist)
}
