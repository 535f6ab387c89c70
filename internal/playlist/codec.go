package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jscyril/playlist_manager/api"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/samber/lo"
)

// Record is one persisted playlist entry. Durations are never stored.
type Record struct {
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
}

// rawRecord tells a missing field apart from an empty one
type rawRecord struct {
	Title    *string `json:"title"`
	FilePath *string `json:"file_path"`
}

// Records converts songs to their persisted form
func Records(songs []*api.Song) []Record {
	return lo.Map(songs, func(s *api.Song, _ int) Record {
		return Record{Title: s.Title, FilePath: s.FilePath}
	})
}

// Marshal encodes songs as an indented JSON array
func Marshal(songs []*api.Song) ([]byte, error) {
	data, err := json.MarshalIndent(Records(songs), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a playlist file. name is only used in error messages.
// Any record missing title or file_path fails the whole decode.
func Unmarshal(data []byte, name string) ([]Record, error) {
	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", playerrors.ErrCorruptPlaylist, name, err)
	}

	records := make([]Record, 0, len(raw))
	for i, r := range raw {
		switch {
		case r.Title == nil:
			return nil, &playerrors.RecordError{Path: name, Record: i, Err: fmt.Errorf("%w: missing title", playerrors.ErrCorruptPlaylist)}
		case r.FilePath == nil:
			return nil, &playerrors.RecordError{Path: name, Record: i, Err: fmt.Errorf("%w: missing file_path", playerrors.ErrCorruptPlaylist)}
		}
		records = append(records, Record{Title: *r.Title, FilePath: *r.FilePath})
	}
	return records, nil
}

// WriteFile saves songs to path, replacing any existing file
func WriteFile(path string, songs []*api.Song) error {
	data, err := Marshal(songs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write playlist file: %w", err)
	}
	return nil
}

// ReadFile reads the records stored at path
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", playerrors.ErrFileMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read playlist file: %w", err)
	}
	return Unmarshal(data, path)
}
