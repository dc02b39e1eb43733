package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playshot/internal/config"
	"playshot/internal/playlist"
)

const samplePlaylistsName = "playlists.toml"

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath, playlistsPath string
	var overwrite, noPlaylists bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration and playlist file",
		Long: "Write a sample playshot.toml and, next to it, a playlists.toml that\n" +
			"`playshot playlist import` accepts. An existing playlist file is kept.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveInitPath(targetPath, "")
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Lstat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			if noPlaylists {
				fmt.Fprintln(out, "Next: point paths.html_dir at your playlist pages and add playlists with `playshot playlist add`.")
				return nil
			}

			list, err := resolveInitPath(playlistsPath, filepath.Join(filepath.Dir(target), samplePlaylistsName))
			if err != nil {
				return err
			}
			switch err := playlist.WriteSample(list); {
			case errors.Is(err, playlist.ErrSampleExists):
				fmt.Fprintf(out, "Kept existing playlist file %s\n", list)
			case err != nil:
				return fmt.Errorf("create sample playlists: %w", err)
			default:
				fmt.Fprintf(out, "Wrote sample playlists to %s\n", list)
			}
			fmt.Fprintf(out, "Next: point paths.html_dir at your playlist pages, then run `playshot playlist import %s`.\n", list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().StringVar(&playlistsPath, "playlists", "", "Destination for the sample playlist file (default: next to the config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	cmd.Flags().BoolVar(&noPlaylists, "no-playlists", false, "Skip writing the sample playlist file")
	return cmd
}

// resolveInitPath expands a user supplied path, falling back to fallback or,
// when that is empty too, to the default config location.
func resolveInitPath(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" && fallback != "" {
		return fallback, nil
	}
	if value == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return path, nil
	}
	path, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", value, err)
	}
	return path, nil
}

type configReport struct {
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	HTMLDir   string `json:"html_dir"`
	ImageDir  string `json:"image_dir"`
	Playlists string `json:"playlist_db"`
	Threshold int    `json:"split_threshold"`
	Remainder string `json:"split_remainder"`
	Publish   string `json:"publish"`
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			report := configReport{
				Path:      ctx.configPath,
				Exists:    true,
				HTMLDir:   cfg.Paths.HTMLDir,
				ImageDir:  cfg.Paths.ImageDir,
				Playlists: cfg.Paths.PlaylistDB,
				Threshold: cfg.Split.Threshold,
				Remainder: cfg.Split.Remainder,
				Publish:   "disabled",
			}
			if _, err := os.Stat(ctx.configPath); os.IsNotExist(err) {
				report.Exists = false
			}
			if cfg.Publish.Enabled {
				report.Publish = "s3://" + cfg.Publish.Bucket + "/" + cfg.Publish.Prefix
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", report.Path)
			if !report.Exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			rows := [][]string{
				{"HTML pages", report.HTMLDir},
				{"Images", report.ImageDir},
				{"Playlist database", report.Playlists},
				{"Split threshold", strconv.Itoa(report.Threshold) + " px"},
				{"Remainder policy", report.Remainder},
				{"Publish", report.Publish},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
