package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "playlist-manager"
	envPrefix = "PLAYLIST_MANAGER"
)

// Config holds application configuration
type Config struct {
	// Directory for named playlists and the log file
	DataDir string
	// Starting directory of the file browser
	MusicDir      string
	DefaultVolume float64
	SampleRate    int
	// How often the end-of-track bridge polls the engine
	PollInterval time.Duration
	ScanWorkers  int
	LogLevel     string
	LogFile      string
	Keys         KeyMap
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	Play        string
	PlayAll     string
	PlayPause   string
	Stop        string
	Next        string
	Previous    string
	SeekForward string
	SeekBack    string
	Add         string
	Remove      string
	Shuffle     string
	Save        string
	Load        string
	VolumeUp    string
	VolumeDown  string
	Quit        string
}

// ConfigDir returns the directory searched for config.yaml
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// DefaultKeyMap returns the built-in key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Play:        "enter",
		PlayAll:     "P",
		PlayPause:   " ",
		Stop:        "s",
		Next:        "n",
		Previous:    "p",
		SeekForward: "right",
		SeekBack:    "left",
		Add:         "a",
		Remove:      "d",
		Shuffle:     "S",
		Save:        "w",
		Load:        "o",
		VolumeUp:    "+",
		VolumeDown:  "-",
		Quit:        "q",
	}
}

// DefaultPath is where Save writes when no path is given
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("data_dir", filepath.Join(xdg.DataHome, appName))
	v.SetDefault("music_dir", home)
	v.SetDefault("default_volume", 0.5)
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("poll_interval", 100*time.Millisecond)
	v.SetDefault("scan_workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	keys := DefaultKeyMap()
	v.SetDefault("keys.play", keys.Play)
	v.SetDefault("keys.play_all", keys.PlayAll)
	v.SetDefault("keys.play_pause", keys.PlayPause)
	v.SetDefault("keys.stop", keys.Stop)
	v.SetDefault("keys.next", keys.Next)
	v.SetDefault("keys.previous", keys.Previous)
	v.SetDefault("keys.seek_forward", keys.SeekForward)
	v.SetDefault("keys.seek_back", keys.SeekBack)
	v.SetDefault("keys.add", keys.Add)
	v.SetDefault("keys.remove", keys.Remove)
	v.SetDefault("keys.shuffle", keys.Shuffle)
	v.SetDefault("keys.save", keys.Save)
	v.SetDefault("keys.load", keys.Load)
	v.SetDefault("keys.volume_up", keys.VolumeUp)
	v.SetDefault("keys.volume_down", keys.VolumeDown)
	v.SetDefault("keys.quit", keys.Quit)
}

// Load reads configuration from a .env file, the config file and the
// environment, in increasing order of precedence. An empty configFile
// searches the XDG config directory and the working directory; a missing
// file there is not an error.
func Load(configFile string) (*Config, error) {
	// Optional; variables already set in the environment win
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DataDir:       v.GetString("data_dir"),
		MusicDir:      v.GetString("music_dir"),
		DefaultVolume: v.GetFloat64("default_volume"),
		SampleRate:    v.GetInt("sample_rate"),
		PollInterval:  v.GetDuration("poll_interval"),
		ScanWorkers:   v.GetInt("scan_workers"),
		LogLevel:      v.GetString("log_level"),
		LogFile:       v.GetString("log_file"),
		Keys: KeyMap{
			Play:        v.GetString("keys.play"),
			PlayAll:     v.GetString("keys.play_all"),
			PlayPause:   v.GetString("keys.play_pause"),
			Stop:        v.GetString("keys.stop"),
			Next:        v.GetString("keys.next"),
			Previous:    v.GetString("keys.previous"),
			SeekForward: v.GetString("keys.seek_forward"),
			SeekBack:    v.GetString("keys.seek_back"),
			Add:         v.GetString("keys.add"),
			Remove:      v.GetString("keys.remove"),
			Shuffle:     v.GetString("keys.shuffle"),
			Save:        v.GetString("keys.save"),
			Load:        v.GetString("keys.load"),
			VolumeUp:    v.GetString("keys.volume_up"),
			VolumeDown:  v.GetString("keys.volume_down"),
			Quit:        v.GetString("keys.quit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the player cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		errs = append(errs, fmt.Errorf("default_volume %v not in [0,1]", c.DefaultVolume))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.ScanWorkers <= 0 {
		errs = append(errs, fmt.Errorf("scan_workers must be positive, got %d", c.ScanWorkers))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must be set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PlaylistDir holds the named playlists
func (c *Config) PlaylistDir() string {
	return filepath.Join(c.DataDir, "playlists")
}

// LogPath returns the log destination. The terminal UI owns the screen, so it
// falls back to a file in the data directory.
func (c *Config) LogPath(interactive bool) string {
	if c.LogFile != "" || !interactive {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "player.log")
}

// Save writes configuration to path
func (c *Config) Save(path string) error {
	v := viper.New()

	v.Set("data_dir", c.DataDir)
	v.Set("music_dir", c.MusicDir)
	v.Set("default_volume", c.DefaultVolume)
	v.Set("sample_rate", c.SampleRate)
	v.Set("poll_interval", c.PollInterval.String())
	v.Set("scan_workers", c.ScanWorkers)
	v.Set("log_level", c.LogLevel)
	v.Set("log_file", c.LogFile)

	v.Set("keys.play", c.Keys.Play)
	v.Set("keys.play_all", c.Keys.PlayAll)
	v.Set("keys.play_pause", c.Keys.PlayPause)
	v.Set("keys.stop", c.Keys.Stop)
	v.Set("keys.next", c.Keys.Next)
	v.Set("keys.previous", c.Keys.Previous)
	v.Set("keys.seek_forward", c.Keys.SeekForward)
	v.Set("keys.seek_back", c.Keys.SeekBack)
	v.Set("keys.add", c.Keys.Add)
	v.Set("keys.remove", c.Keys.Remove)
	v.Set("keys.shuffle", c.Keys.Shuffle)
	v.Set("keys.save", c.Keys.Save)
	v.Set("keys.load", c.Keys.Load)
	v.Set("keys.volume_up", c.Keys.VolumeUp)
	v.Set("keys.volume_down", c.Keys.VolumeDown)
	v.Set("keys.quit", c.Keys.Quit)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
