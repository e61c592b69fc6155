package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/starford/echome/internal/history"
	"github.com/starford/echome/internal/localwatch"
	"github.com/starford/echome/internal/metadata"
)

// RunWatch starts the local inbox watcher and blocks until ctx is
// cancelled. Every settled supported file goes through the single-file
// pipeline, and each file is recorded as its own run.
func RunWatch(ctx context.Context, cfg *Config) error {
	initLogger(cfg)

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	pipe, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Inbox.Dir == "" {
		return fmt.Errorf("inbox directory is not configured")
	}

	slog.Info("Watching inbox",
		slog.String("inbox", cfg.Inbox.Dir),
		slog.String("output", cfg.Output.Dir))

	return localwatch.Watch(ctx, cfg.Inbox.Dir, slog.Default(), func(ctx context.Context, path string) error {
		started := time.Now()
		paths, _, err := pipe.ProcessFile(ctx, path, metadata.Overrides{}, cfg.Output.Dir, cfg.Output.Timestamped)

		rec := history.FileRecord{FileName: filepath.Base(path), Status: history.StatusOK}
		run := history.Run{Mode: "local", StartedAt: started, Duration: time.Since(started).Milliseconds()}
		if err != nil {
			rec.Status = history.StatusFailed
			rec.Error = err.Error()
			run.Failed = 1
		} else {
			rec.Outputs = []string{paths.Blog, paths.XPost, paths.LinkedIn}
			run.Processed = 1
		}
		if _, insertErr := db.InsertRun(run, []history.FileRecord{rec}); insertErr != nil {
			slog.Warn("run history insert failed", slog.String("error", insertErr.Error()))
		}
		return err
	})
}
