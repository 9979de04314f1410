package gedcom

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// ResultFunc receives the outcome of every check run by a Watcher.
type ResultFunc func(*GedcomProcessingResult, error)

// Watcher re-checks a file each time it changes. Runs are sequential.
type Watcher struct {
	proc     *GedcomIxProcessor
	path     string
	debounce time.Duration
	logger   *zap.SugaredLogger
}

// NewWatcher watches path, waiting debounce after the last change before
// checking it again.
func NewWatcher(proc *GedcomIxProcessor, path string, debounce time.Duration) (*Watcher, error) {
	if path == Stdin {
		return nil, errors.Wrap(errors.ErrInvalidInput, "cannot watch standard input")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	return &Watcher{
		proc:     proc,
		path:     abs,
		debounce: debounce,
		logger:   logger.AddWatchSymbol(logger.ComponentLogger("ix.watch")),
	}, nil
}

// Run checks the file once, then after every change, until ctx is done.
// It returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, fn ResultFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer fw.Close()

	// Editors often replace files by rename, so watch the directory.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(w.path))
	}
	w.logger.Infow("Watching", logger.FieldFile, w.path, "debounce_ms", w.debounce.Milliseconds())
	defer w.logger.Infow("Stopped watching", logger.FieldFile, w.path)

	w.check(ctx, fn)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debugw("File changed", logger.FieldFile, event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			w.check(ctx, fn)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watch error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) check(ctx context.Context, fn ResultFunc) {
	result, err := w.proc.ProcessFile(ctx, w.path)
	if ctx.Err() != nil {
		return
	}
	fn(result, err)
}
