package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playshot/internal/playlist"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Manage the playlists rendered by capture",
	}

	playlistCmd.AddCommand(newPlaylistListCommand(ctx))
	playlistCmd.AddCommand(newPlaylistAddCommand(ctx))
	playlistCmd.AddCommand(newPlaylistToggleCommand(ctx, "enable", true))
	playlistCmd.AddCommand(newPlaylistToggleCommand(ctx, "disable", false))
	playlistCmd.AddCommand(newPlaylistRemoveCommand(ctx))
	playlistCmd.AddCommand(newPlaylistImportCommand(ctx))

	return playlistCmd
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPlaylists(func(store *playlist.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if entries == nil {
						entries = []playlist.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No playlists configured")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					hashtag := ""
					if e.Hashtag != "" {
						hashtag = "#" + e.Hashtag
					}
					rows = append(rows, []string{e.ID, e.Name, yesNo(e.Enabled), e.ScreenName, hashtag, e.UpdatedAt.Local().Format(time.DateTime)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Enabled", "Screen name", "Hashtag", "Updated"},
					rows,
					nil,
				))
				return nil
			})
		},
	}
}

func newPlaylistAddCommand(ctx *commandContext) *cobra.Command {
	var id, screenName, hashtag string
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a playlist; <html_dir>/<name>.html is rendered for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := playlist.Entry{
				ID:         strings.TrimSpace(id),
				Name:       args[0],
				Enabled:    !disabled,
				ScreenName: screenName,
				Hashtag:    hashtag,
			}
			if entry.ID == "" {
				entry.ID = strings.TrimSpace(args[0])
			}
			return ctx.withPlaylists(func(store *playlist.Store) error {
				saved, err := store.Upsert(cmd.Context(), entry)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, saved)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved playlist %s (%s), enabled: %s\n", saved.Name, saved.ID, yesNo(saved.Enabled))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Stable playlist identifier (defaults to the name)")
	cmd.Flags().StringVar(&screenName, "screen-name", "", "Source account the playlist was collected from")
	cmd.Flags().StringVar(&hashtag, "hashtag", "", "Source hashtag the playlist was collected from")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Store the playlist without capturing it")
	return cmd
}

func newPlaylistToggleCommand(ctx *commandContext, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>...",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " playlists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPlaylists(func(store *playlist.Store) error {
				for _, id := range args {
					if err := store.SetEnabled(cmd.Context(), id, enabled); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Playlist %s %sd\n", id, verb)
				}
				return nil
			})
		},
	}
}

func newPlaylistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove playlists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPlaylists(func(store *playlist.Store) error {
				for _, id := range args {
					if err := store.Remove(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed playlist %s\n", id)
				}
				return nil
			})
		},
	}
}

func newPlaylistImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Add or update playlists from a TOML file of [[playlist]] tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := playlist.LoadFile(args[0])
			if err != nil {
				return err
			}
			return ctx.withPlaylists(func(store *playlist.Store) error {
				n, err := store.Import(cmd.Context(), entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d playlists from %s\n", n, args[0])
				return nil
			})
		},
	}
}
