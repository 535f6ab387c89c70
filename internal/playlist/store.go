package playlist

import (
	"context"
	"math/rand/v2"

	"github.com/jscyril/playlist_manager/api"
	"github.com/rs/zerolog"
)

// Store is the ordered list of playlist entries. Insertion order is playback
// order and duplicates are allowed. Entries are identified by pointer.
//
// Store is not safe for concurrent use; the session loop owns it.
type Store struct {
	songs   []*api.Song
	scanner *Scanner
	rng     *rand.Rand
	logger  zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithRand makes Shuffle draw from r
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		s.rng = r
	}
}

// NewStore creates an empty playlist. Load rebuilds entries through scanner;
// with a nil scanner loaded entries are not measured and keep a zero duration.
func NewStore(scanner *Scanner, logger zerolog.Logger, opts ...Option) *Store {
	if scanner == nil {
		scanner = NewScanner(1, nil, logger)
	}
	s := &Store{
		songs:   make([]*api.Song, 0),
		scanner: scanner,
		logger:  logger.With().Str("component", "playlist").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends songs in argument order
func (s *Store) Add(songs ...*api.Song) {
	s.songs = append(s.songs, songs...)
}

// RemoveAt removes and returns the entry at index. It reports false and leaves
// the store unchanged when index is out of range.
func (s *Store) RemoveAt(index int) (*api.Song, bool) {
	if index < 0 || index >= len(s.songs) {
		return nil, false
	}

	removed := s.songs[index]
	copy(s.songs[index:], s.songs[index+1:])
	s.songs[len(s.songs)-1] = nil
	s.songs = s.songs[:len(s.songs)-1]
	return removed, true
}

// Shuffle permutes the entries in place (Fisher-Yates)
func (s *Store) Shuffle() {
	n := len(s.songs)
	if n <= 1 {
		return
	}

	for i := n - 1; i > 0; i-- {
		j := s.intn(i + 1)
		s.songs[i], s.songs[j] = s.songs[j], s.songs[i]
	}
}

func (s *Store) intn(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Replace swaps the whole list for songs, keeping their order
func (s *Store) Replace(songs []*api.Song) {
	s.songs = make([]*api.Song, len(songs))
	copy(s.songs, songs)
}

// Songs returns a copy of the entries in playback order
func (s *Store) Songs() []*api.Song {
	result := make([]*api.Song, len(s.songs))
	copy(result, s.songs)
	return result
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.songs)
}

// At returns the entry at index
func (s *Store) At(index int) (*api.Song, bool) {
	if index < 0 || index >= len(s.songs) {
		return nil, false
	}
	return s.songs[index], true
}

// IndexOf returns the position of song, or -1 when it is not in the list
func (s *Store) IndexOf(song *api.Song) int {
	if song == nil {
		return -1
	}
	for i, entry := range s.songs {
		if entry == song {
			return i
		}
	}
	return -1
}

// Save writes title and file path of every entry to path
func (s *Store) Save(path string) error {
	if err := WriteFile(path, s.songs); err != nil {
		return err
	}
	s.logger.Debug().Str("path", path).Int("songs", len(s.songs)).Msg("Playlist saved")
	return nil
}

// Load replaces the list with the playlist stored at path. Durations are
// read again. On any error the current list is left untouched.
func (s *Store) Load(ctx context.Context, path string) error {
	songs, err := s.scanner.Load(ctx, path)
	if err != nil {
		return err
	}
	s.Replace(songs)

	s.logger.Debug().Str("path", path).Int("songs", len(songs)).Msg("Playlist loaded")
	return nil
}
