package playlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
)

const playlistExt = ".json"

// Info describes a named playlist file
type Info struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Manager keeps named playlists as JSON files in one directory
type Manager struct {
	basePath string
}

// NewManager creates a new playlist manager
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// Dir returns the directory holding named playlists
func (m *Manager) Dir() string {
	return m.basePath
}

// Ensure creates the playlist directory if needed
func (m *Manager) Ensure() error {
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return fmt.Errorf("create playlist directory: %w", err)
	}
	return nil
}

// PathFor returns the file backing the playlist called name
func (m *Manager) PathFor(name string) string {
	return filepath.Join(m.basePath, name+playlistExt)
}

// Resolve maps a playlist argument to a file. Anything that looks like a path
// is used as is; a bare name refers to a playlist in the managed directory.
func (m *Manager) Resolve(arg string) string {
	if filepath.Base(arg) != arg || strings.EqualFold(filepath.Ext(arg), playlistExt) {
		return arg
	}
	return m.PathFor(arg)
}

// List returns the managed playlists sorted by name
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.basePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read playlist directory: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != playlistExt {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			continue // Removed while listing
		}

		infos = append(infos, Info{
			Name:    strings.TrimSuffix(entry.Name(), playlistExt),
			Path:    filepath.Join(m.basePath, entry.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the playlist called name. Only bare names are accepted, so
// nothing outside the playlist directory can be removed.
func (m *Manager) Delete(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", playerrors.ErrInvalidName, name)
	}

	err := os.Remove(m.PathFor(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", playerrors.ErrPlaylistNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("delete playlist file: %w", err)
	}
	return nil
}
