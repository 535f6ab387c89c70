package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jscyril/playlist_manager/internal/audio"
	"github.com/jscyril/playlist_manager/internal/config"
	"github.com/jscyril/playlist_manager/internal/logging"
	"github.com/jscyril/playlist_manager/internal/playback"
	"github.com/jscyril/playlist_manager/internal/playlist"
	"github.com/jscyril/playlist_manager/internal/session"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/jscyril/playlist_manager/pkg/events"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// loadConfig reads the configuration and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// env holds what every command needs
type env struct {
	cfg     *config.Config
	logger  zerolog.Logger
	closer  io.Closer
	engine  *audio.AudioEngine
	manager *playlist.Manager
	scanner *playlist.Scanner
	editor  *playlist.Scanner // expands paths without reading durations
}

// newEnv loads configuration and sets up logging. The audio device is not
// opened; the engine only reads file lengths until startPlayer is called.
func newEnv(interactive bool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.LogPath(interactive), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	engine := audio.NewAudioEngine(cfg.SampleRate, cfg.DefaultVolume, logger)
	return &env{
		cfg:     cfg,
		logger:  logger,
		closer:  closer,
		engine:  engine,
		manager: playlist.NewManager(cfg.PlaylistDir()),
		scanner: playlist.NewScanner(cfg.ScanWorkers, engine, logger),
		editor:  playlist.NewScanner(cfg.ScanWorkers, nil, logger),
	}, nil
}

func (e *env) Close() error {
	return e.closer.Close()
}

// openStore loads the playlist at path for editing. Durations are not
// read since they are not saved. A missing file gives an empty store when
// allowMissing is set.
func (e *env) openStore(ctx context.Context, path string, allowMissing bool) (*playlist.Store, error) {
	store := playlist.NewStore(e.editor, e.logger)
	err := store.Load(ctx, path)
	if err != nil && !(allowMissing && errors.Is(err, playerrors.ErrFileMissing)) {
		return nil, err
	}
	return store, nil
}

// saveStore writes store to path, creating the playlist directory for named playlists
func (e *env) saveStore(store *playlist.Store, path string) error {
	if filepath.Dir(path) == e.manager.Dir() {
		if err := e.manager.Ensure(); err != nil {
			return err
		}
	}
	return store.Save(path)
}

// player is a running playback session on the audio device
type player struct {
	*env
	bus     *events.EventBus
	session *session.Session
	cancel  context.CancelFunc
	g       *errgroup.Group
}

// startPlayer opens the audio device and starts the session loop
func (e *env) startPlayer(ctx context.Context) (*player, error) {
	if err := e.engine.Start(); err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}

	bus := events.NewEventBus()
	store := playlist.NewStore(e.scanner, e.logger)
	ctrl := playback.NewController(store, e.engine, e.logger, playback.WithEventBus(bus))
	sess := session.New(ctrl, e.scanner, e.logger)

	ctx, cancel := context.WithCancel(ctx)
	g := new(errgroup.Group)
	g.Go(func() error {
		return sess.Serve(ctx, e.engine.Finished(), e.cfg.PollInterval)
	})

	e.logger.Debug().Msg("Player started")
	return &player{env: e, bus: bus, session: sess, cancel: cancel, g: g}, nil
}

// Close stops the session and releases the audio device
func (p *player) Close() error {
	p.cancel()
	err := p.g.Wait()
	p.bus.Close()
	return errors.Join(err, p.engine.Close())
}
