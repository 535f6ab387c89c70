package playlist

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jscyril/playlist_manager/api"
	"github.com/rs/zerolog"
)

// DurationReader reports the length of an audio file
type DurationReader interface {
	ReadDuration(path string) (time.Duration, error)
}

// NewSong builds a playlist entry and reads its duration once.
// A failed read is logged and leaves the duration at zero.
func NewSong(title, path string, durations DurationReader, logger zerolog.Logger) *api.Song {
	song := &api.Song{
		ID:       uuid.NewString(),
		Title:    title,
		FilePath: path,
	}

	if durations == nil {
		return song
	}

	d, err := durations.ReadDuration(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Could not determine song length")
		return song
	}
	song.Duration = d
	return song
}

// SongFromPath uses the file name, extension included, as the title
func SongFromPath(path string, durations DurationReader, logger zerolog.Logger) *api.Song {
	return NewSong(filepath.Base(path), path, durations, logger)
}
