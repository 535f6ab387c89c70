package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jscyril/playlist_manager/api"
	"github.com/jscyril/playlist_manager/internal/ui/components"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const titleWidth = 40

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <playlist>",
	Short: "Print the songs of a playlist",
	Long: `Print the songs of a saved playlist with their durations.

Each file is decoded to find its length; files that cannot be decoded are
shown as --:--.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <playlist> <path>...",
	Short: "Append audio files to a playlist",
	Long: `Append audio files to a playlist, creating it if needed.

Directories are searched recursively for supported audio files, which are
added in path order.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <playlist> <number>",
	Short: "Remove a song from a playlist",
	Long:  `Remove the song at the given position, counting from 1 as printed by list.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runRemove,
}

// shuffleCmd represents the shuffle command
var shuffleCmd = &cobra.Command{
	Use:   "shuffle <playlist>",
	Short: "Randomly reorder a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runShuffle,
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, removeCmd, shuffleCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	songs, err := e.scanner.Load(cmd.Context(), e.manager.Resolve(args[0]))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := lo.SumBy(songs, func(s *api.Song) time.Duration { return s.Duration })
	fmt.Fprintf(out, "%s (%d songs, %s)\n", args[0], len(songs), components.FormatDuration(total))
	for i, song := range songs {
		length := "--:--"
		if song.Duration > 0 {
			length = components.FormatDuration(song.Duration)
		}
		title := runewidth.FillRight(runewidth.Truncate(song.Title, titleWidth, "..."), titleWidth)
		fmt.Fprintf(out, "%3d. %s %7s  %s\n", i+1, title, length, song.FilePath)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	path := e.manager.Resolve(args[0])
	store, err := e.openStore(cmd.Context(), path, true)
	if err != nil {
		return err
	}

	songs, err := e.editor.Scan(cmd.Context(), args[1:])
	if err != nil {
		return err
	}
	store.Add(songs...)

	if err := e.saveStore(store, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d song(s) to %s\n", len(songs), args[0])
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid song number %q: %w", args[1], err)
	}

	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	path := e.manager.Resolve(args[0])
	store, err := e.openStore(cmd.Context(), path, false)
	if err != nil {
		return err
	}

	song, ok := store.RemoveAt(number - 1)
	if !ok {
		return &playerrors.IndexError{Index: number - 1, Len: store.Len()}
	}
	if err := e.saveStore(store, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", song.Title)
	return nil
}

func runShuffle(cmd *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	path := e.manager.Resolve(args[0])
	store, err := e.openStore(cmd.Context(), path, false)
	if err != nil {
		return err
	}
	store.Shuffle()
	if err := e.saveStore(store, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Shuffled %d song(s)\n", store.Len())
	return nil
}
