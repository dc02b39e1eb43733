package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playshot/internal/logging"
	"playshot/internal/pipeline"
	"playshot/internal/playlist"
	"playshot/internal/stage"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Capture enabled playlists, split tall images, and publish when enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			return ctx.withPlaylists(func(store *playlist.Store) error {
				captureStage := newCaptureStage(cfg, store, logger)
				captureStage.Only = only
				splitStage, err := newSplitStage(cfg, logger)
				if err != nil {
					return err
				}
				stages := []stage.Handler{captureStage, splitStage}
				if cfg.Publish.Enabled {
					publishStage, err := newPublishStage(cmd.Context(), cfg, logger)
					if err != nil {
						return err
					}
					stages = append(stages, publishStage)
				}
				return runStages(cmd, ctx, stages...)
			})
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Capture only these playlist names")
	return cmd
}

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "capture [names...]",
		Short: "Render enabled playlist pages to PNG without splitting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withPlaylists(func(store *playlist.Store) error {
				st := newCaptureStage(cfg, store, logger)
				st.Only = args
				return runStages(cmd, ctx, st)
			})
		},
	}
}

func newPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Upload captured images and bands to the configured bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Publish.Enabled {
				return errors.New("publish.enabled is false; set it and publish.bucket in the config")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			st, err := newPublishStage(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return runStages(cmd, ctx, st)
		},
	}
}

// runStages runs the stages and prints the run summary.
func runStages(cmd *cobra.Command, ctx *commandContext, stages ...stage.Handler) error {
	summary, runErr := executeStages(cmd, ctx, stages...)
	if summary.RunID == "" {
		return runErr
	}
	if err := printSummary(cmd, ctx, summary); err != nil {
		return err
	}
	return runErr
}

// executeStages checks every stage's health, then runs them through the
// pipeline runner.
func executeStages(cmd *cobra.Command, ctx *commandContext, stages ...stage.Handler) (pipeline.Summary, error) {
	cfg := ctx.configValue()
	logger, err := ctx.ensureLogger()
	if err != nil {
		return pipeline.Summary{}, err
	}

	var unhealthy []string
	for _, st := range stages {
		if h := st.HealthCheck(cmd.Context()); !h.Ready {
			unhealthy = append(unhealthy, h.String())
		}
	}
	if len(unhealthy) > 0 {
		return pipeline.Summary{}, fmt.Errorf("stages not ready: %s", strings.Join(unhealthy, "; "))
	}

	summary, err := pipeline.NewRunner(cfg.Paths.ImageDir, logger, stages...).Run(cmd.Context())
	if err != nil {
		logger.Debug("run failed", logging.Error(err))
	}
	return summary, err
}

func printSummary(cmd *cobra.Command, ctx *commandContext, summary pipeline.Summary) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, summary)
	}

	rows := make([][]string, 0, len(summary.Stages))
	for _, st := range summary.Stages {
		status := "ok"
		if st.Err != "" {
			status = "failed"
		}
		rows = append(rows, []string{st.Name, status, st.Duration.Round(time.Millisecond).String()})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"Stage", "Status", "Duration"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
	if ctx.logPath != "" {
		fmt.Fprintf(out, "Log: %s\n", ctx.logPath)
	}
	return nil
}
