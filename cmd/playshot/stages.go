package main

import (
	"context"
	"errors"
	"log/slog"

	"playshot/internal/capture"
	"playshot/internal/config"
	"playshot/internal/deps"
	"playshot/internal/playlist"
	"playshot/internal/publish"
	"playshot/internal/split"
)

func chromeProbe(cfg *config.Config) func() error {
	return func() error {
		status := deps.ResolveChrome(cfg.Capture.ChromePath)
		if !status.Available {
			return errors.New(status.Detail)
		}
		return nil
	}
}

func newCaptureStage(cfg *config.Config, store *playlist.Store, logger *slog.Logger) *capture.Stage {
	capturer := capture.NewCapturer(cfg, logger)
	opts := capture.ChromeOptionsFromConfig(cfg)
	if status := deps.ResolveChrome(cfg.Capture.ChromePath); status.Available {
		opts.ExecPath = status.Command
	}
	return capture.NewStage(store, capturer, capture.ChromeFactory(opts, logger), chromeProbe(cfg), logger)
}

func newSplitStage(cfg *config.Config, logger *slog.Logger) (*split.Stage, error) {
	splitter, err := split.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return split.NewStage(splitter, cfg.Paths.ImageDir, logger), nil
}

func newPublishStage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*publish.Stage, error) {
	client, err := publish.NewClient(ctx, cfg.Publish)
	if err != nil {
		return nil, err
	}
	return publish.NewStage(client, cfg.Paths.ImageDir, cfg.Capture.Suffix, cfg.Publish.Prefix, cfg.PublishTimeout(), logger), nil
}
