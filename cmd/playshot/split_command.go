package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playshot/internal/logging"
	"playshot/internal/pipeline"
	"playshot/internal/split"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "split [files...]",
		Short: "Split captured images taller than split.threshold into bands",
		Long: "Split the named PNG files, or every captured image in paths.image_dir when none\n" +
			"are given. With --dry-run only the band plan is printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if dryRun {
				splitter, err := split.New(cfg, nil)
				if err != nil {
					return err
				}
				paths := args
				if len(paths) == 0 {
					if paths, err = split.Discover(cfg.Paths.ImageDir, cfg.Capture.Suffix); err != nil {
						return err
					}
				}
				results := make([]split.Result, 0, len(paths))
				for _, path := range paths {
					res, err := splitter.Inspect(path)
					if err != nil {
						return err
					}
					results = append(results, res)
				}
				return printSplitResults(cmd, ctx, results)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				st, err := newSplitStage(cfg, logger)
				if err != nil {
					return err
				}
				if _, err := executeStages(cmd, ctx, st); err != nil {
					_ = printSplitResults(cmd, ctx, st.Results())
					return err
				}
				return printSplitResults(cmd, ctx, st.Results())
			}

			splitter, err := split.New(cfg, logger)
			if err != nil {
				return err
			}
			lock, err := pipeline.AcquireLock(cfg.Paths.ImageDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release run lock", logging.Error(err))
				}
			}()
			results, err := splitter.SplitFiles(cmd.Context(), args)
			if perr := printSplitResults(cmd, ctx, results); perr != nil {
				return perr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the band plan without writing files")
	return cmd
}

func printSplitResults(cmd *cobra.Command, ctx *commandContext, results []split.Result) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, results)
	}
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No captured images found")
		return nil
	}
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		heights := make([]string, 0, len(res.Bands))
		for _, b := range res.Bands {
			heights = append(heights, strconv.Itoa(b.Height()))
		}
		bands := "-"
		if res.Split {
			bands = strconv.Itoa(len(res.Bands)) + " (" + strings.Join(heights, ", ") + ")"
		}
		rows = append(rows, []string{
			filepath.Base(res.Source),
			fmt.Sprintf("%dx%d", res.Width, res.Height),
			bands,
			strconv.Itoa(res.Dropped),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Image", "Size", "Bands", "Dropped rows"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
	))
	return nil
}
