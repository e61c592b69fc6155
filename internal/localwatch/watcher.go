// Package localwatch watches a local inbox directory and runs the
// per-file pipeline on each new supported artifact.
package localwatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/echome/internal/drive"
	"github.com/starford/echome/internal/extract"
	"github.com/starford/echome/internal/metadata"
)

// settleDelay debounces write bursts while a file is still being
// copied into the inbox.
const settleDelay = 500 * time.Millisecond

// ProcessFunc runs the pipeline on one settled input file.
type ProcessFunc func(ctx context.Context, path string) error

// Watch starts an fsnotify watcher on the inbox directory and processes
// file events until ctx is cancelled. Each created or written file gets
// its own debounce timer; the file is handed to process only after it
// stops changing. Successfully processed inputs are renamed with the
// processed marker so restarts skip them.
func Watch(ctx context.Context, inboxDir string, logger *slog.Logger, process ProcessFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := os.MkdirAll(inboxDir, 0o755); err != nil {
		return err
	}
	if err := w.Add(inboxDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("inbox", inboxDir))

	// Pick up anything already sitting in the inbox.
	ready := make(chan string, 64)
	if entries, err := os.ReadDir(inboxDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				enqueue(ready, filepath.Join(inboxDir, e.Name()))
			}
		}
	}

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case path := <-ready:
			delete(timers, path)
			if !eligible(path) {
				continue
			}
			logger.Info("watcher: processing", slog.String("file", filepath.Base(path)))
			if err := process(ctx, path); err != nil {
				logger.Error("watcher: processing failed",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()))
				continue
			}
			marked := drive.ProcessedName(path)
			if err := os.Rename(path, marked); err != nil {
				logger.Warn("watcher: mark processed failed",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := ev.Name
			if !eligible(path) {
				continue
			}
			if t, exists := timers[path]; exists {
				t.Reset(settleDelay)
				continue
			}
			timers[path] = time.AfterFunc(settleDelay, func() {
				enqueue(ready, path)
			})

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// eligible reports whether path is a supported input artifact: a regular
// file with a supported extension that is neither a sidecar nor already
// marked processed.
func eligible(path string) bool {
	name := filepath.Base(path)
	if strings.HasSuffix(name, metadata.SidecarSuffix) {
		return false
	}
	if !extract.Supported(filepath.Ext(name)) {
		return false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasSuffix(base, drive.ProcessedMarker) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func enqueue(ch chan string, path string) {
	select {
	case ch <- path:
	default:
	}
}
