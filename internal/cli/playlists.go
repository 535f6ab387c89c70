package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// playlistsCmd represents the playlists command
var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List saved playlists",
	Long:  `List the named playlists in the data directory with their size and age.`,
	Args:  cobra.NoArgs,
	RunE:  runPlaylists,
}

// deletePlaylistCmd represents the playlists delete command
var deletePlaylistCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeletePlaylist,
}

func init() {
	rootCmd.AddCommand(playlistsCmd)
	playlistsCmd.AddCommand(deletePlaylistCmd)
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	saved, err := e.manager.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(saved) == 0 {
		fmt.Fprintf(out, "No playlists in %s\n", e.manager.Dir())
		return nil
	}
	for _, info := range saved {
		fmt.Fprintf(out, "%-30s %8s  %s\n", info.Name, humanize.Bytes(uint64(max(info.Size, 0))), humanize.Time(info.ModTime))
	}
	return nil
}

func runDeletePlaylist(cmd *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.manager.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
