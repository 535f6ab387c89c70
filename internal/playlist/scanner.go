package playlist

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/audio"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Scanner turns user supplied paths into songs, reading their durations with a
// bounded worker pool
type Scanner struct {
	workers   int
	durations DurationReader
	logger    zerolog.Logger
}

// NewScanner creates a new file scanner
func NewScanner(workers int, durations DurationReader, logger zerolog.Logger) *Scanner {
	if workers <= 0 {
		workers = 4 // Default worker count
	}
	return &Scanner{
		workers:   workers,
		durations: durations,
		logger:    logger.With().Str("component", "scanner").Logger(),
	}
}

// Expand replaces every directory in paths with the supported audio files
// below it, in lexical order. Other paths are kept as given; whether they
// exist is checked at playback time.
func (s *Scanner) Expand(ctx context.Context, paths []string) ([]string, error) {
	files := make([]string, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fi, err := os.Stat(path)
		if err != nil || !fi.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Warn().Err(&playerrors.ScanError{Path: p, Err: err}).Msg("Skipping unreadable path")
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsDir() && audio.IsSupported(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// Songs creates one song per record, keeping record order
func (s *Scanner) Songs(ctx context.Context, records []Record) ([]*api.Song, error) {
	songs := make([]*api.Song, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, r := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			songs[i] = NewSong(r.Title, r.FilePath, s.durations, s.logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return songs, nil
}

// Scan expands paths and creates a song for every file found
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]*api.Song, error) {
	files, err := s.Expand(ctx, paths)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(files))
	for i, f := range files {
		records[i] = Record{Title: filepath.Base(f), FilePath: f}
	}

	songs, err := s.Songs(ctx, records)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("songs", len(songs)).Msg("Scan complete")
	return songs, nil
}

// Load reads the playlist at path and measures every entry again
func (s *Scanner) Load(ctx context.Context, path string) ([]*api.Song, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Songs(ctx, records)
}
