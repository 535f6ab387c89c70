package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory so no stray config.yaml or
// .env is picked up
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	xdg.Reload()
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.DefaultVolume, 1e-9)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "data", "playlist-manager"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "playlists"), cfg.PlaylistDir())
	assert.Equal(t, "q", cfg.Keys.Quit)
	assert.Equal(t, " ", cfg.Keys.PlayPause)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
data_dir: /srv/music-data
default_volume: 0.25
poll_interval: 250ms
keys:
  quit: x
`)
	t.Setenv("PLAYLIST_MANAGER_SAMPLE_RATE", "48000")
	t.Setenv("PLAYLIST_MANAGER_KEYS_NEXT", "j")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/music-data", cfg.DataDir)
	assert.InDelta(t, 0.25, cfg.DefaultVolume, 1e-9)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "j", cfg.Keys.Next)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "PLAYLIST_MANAGER_SCAN_WORKERS=9\n")

	// Register cleanup, then unset so the .env value is applied
	t.Setenv("PLAYLIST_MANAGER_SCAN_WORKERS", "")
	require.NoError(t, os.Unsetenv("PLAYLIST_MANAGER_SCAN_WORKERS"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.ScanWorkers)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.yaml"), "log_level: debug\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "default_volume: 3\nsample_rate: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_volume")
	assert.Contains(t, err.Error(), "sample_rate")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataDir:       "/data",
			DefaultVolume: 0.5,
			SampleRate:    44100,
			PollInterval:  time.Second,
			ScanWorkers:   1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"silent volume", func(c *Config) { c.DefaultVolume = 0 }, false},
		{"negative volume", func(c *Config) { c.DefaultVolume = -0.1 }, true},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, true},
		{"no workers", func(c *Config) { c.ScanWorkers = 0 }, true},
		{"no data dir", func(c *Config) { c.DataDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.DefaultVolume = 0.75
	cfg.PollInterval = 200 * time.Millisecond
	cfg.Keys.Shuffle = "z"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, loaded.DefaultVolume, 1e-9)
	assert.Equal(t, 200*time.Millisecond, loaded.PollInterval)
	assert.Equal(t, "z", loaded.Keys.Shuffle)
	assert.Equal(t, cfg.DataDir, loaded.DataDir)
}

func TestLogPath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}

	assert.Equal(t, "/data/player.log", cfg.LogPath(true))
	assert.Empty(t, cfg.LogPath(false))

	cfg.LogFile = "/tmp/x.log"
	assert.Equal(t, "/tmp/x.log", cfg.LogPath(true))
}
