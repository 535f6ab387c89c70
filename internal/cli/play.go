package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/playback"
	"github.com/jscyril/playlist_manager/internal/ui"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/spf13/cobra"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play <playlist>",
	Short: "Play a playlist without the terminal UI",
	Long: `Play a saved playlist from start to end, printing each song as it starts.

Playback stops at the end of the playlist, when a song cannot be played, or
on Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui [playlist]",
	Short: "Open the terminal UI",
	Long: `Open the terminal UI, loading the given playlist if it exists.

A name that does not exist yet starts an empty playlist; save it from the UI
under the same name. Logs go to the data directory while the UI owns the screen.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(playCmd, tuiCmd)

	playCmd.Flags().IntP("start", "s", 1, "Song number to start from")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start, _ := cmd.Flags().GetInt("start")

	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.startPlayer(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	events := p.bus.Subscribe(api.EventTrackStarted, api.EventStateChange, api.EventError)
	defer p.bus.Unsubscribe(events)

	if err := p.session.Load(ctx, e.manager.Resolve(args[0])); err != nil {
		return err
	}
	if err := p.session.Play(ctx, start-1); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Type {
			case api.EventTrackStarted:
				if song, ok := ev.Payload.(*api.Song); ok {
					fmt.Fprintf(out, "▶ %s\n", song.Title)
				}
			case api.EventError:
				if err, ok := ev.Payload.(error); ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
			case api.EventStateChange:
				snap, err := p.session.Snapshot(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					return err
				}
				if snap.State == playback.Idle {
					return nil
				}
			}
		}
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.startPlayer(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	var name string
	if len(args) == 1 {
		name = args[0]
		path := e.manager.Resolve(name)
		if err := p.session.Load(ctx, path); err != nil {
			if !errors.Is(err, playerrors.ErrFileMissing) {
				return err
			}
			e.logger.Info().Str("path", path).Msg("Starting a new playlist")
		}
	}

	return ui.Run(ctx, ui.Options{
		Session:  p.session,
		Manager:  e.manager,
		Bus:      p.bus,
		Keys:     e.cfg.Keys,
		MusicDir: e.cfg.MusicDir,
		Name:     name,
		Logger:   e.logger,
	})
}
