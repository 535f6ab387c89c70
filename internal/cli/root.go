// Package cli implements the playlist-manager command line
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "unknown"
)

var (
	configFile string
	logLevel   string
)

// rootCmd opens the terminal UI when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "playlist-manager [playlist]",
	Short: "Build playlists of local audio files and play them",
	Long: `playlist-manager keeps playlists of local audio files and plays them.

Without a subcommand it opens the terminal UI, optionally loading a saved
playlist. A playlist argument is either a name, stored as JSON in the data
directory, or a path to a .json file.

Configuration is read from $XDG_CONFIG_HOME/playlist-manager/config.yaml,
./config.yaml, a .env file and PLAYLIST_MANAGER_* environment variables.`,
	Args:         cobra.MaximumNArgs(1),
	Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command until it returns or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/playlist-manager/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}
