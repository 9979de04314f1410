package am

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// ReloadCallback receives the configuration after a reload.
type ReloadCallback func(*Config) error

// ConfigWatcher reloads the configuration when one of its files changes.
type ConfigWatcher struct {
	paths          []string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	ownWrite       bool
	ownWriteMu     sync.Mutex
	started        bool
	done           chan struct{}
}

var (
	globalWatcher   *ConfigWatcher
	globalWatcherMu sync.Mutex
)

// NewConfigWatcher watches paths, which must exist.
func NewConfigWatcher(debounce time.Duration, paths ...string) (*ConfigWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no config files to watch")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "failed to watch config file %s", p)
		}
	}
	return &ConfigWatcher{
		paths:          paths,
		watcher:        w,
		debouncePeriod: debounce,
		done:           make(chan struct{}),
	}, nil
}

// OnReload registers a callback run after each reload.
func (cw *ConfigWatcher) OnReload(cb ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, cb)
}

// MarkOwnWrite makes the watcher ignore the next change, written by kin
// itself.
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.ownWriteMu.Lock()
	defer cw.ownWriteMu.Unlock()
	cw.ownWrite = true
}

func (cw *ConfigWatcher) checkOwnWrite() bool {
	cw.ownWriteMu.Lock()
	defer cw.ownWriteMu.Unlock()
	if cw.ownWrite {
		cw.ownWrite = false
		return true
	}
	return false
}

// Start begins watching in a goroutine.
func (cw *ConfigWatcher) Start() {
	cw.mu.Lock()
	cw.started = true
	cw.mu.Unlock()
	go cw.watchLoop()
}

func (cw *ConfigWatcher) watchLoop() {
	defer close(cw.done)
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if isBackupFile(event.Name) {
				continue
			}
			if cw.checkOwnWrite() {
				logger.Debugw("Config watcher ignoring own write", logger.FieldFile, event.Name)
				continue
			}
			logger.AMInfow("Config watcher detected change", logger.FieldFile, event.Name, "op", event.Op.String())
			cw.scheduleReload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

func (cw *ConfigWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debouncePeriod, func() {
		if err := cw.reload(); err != nil {
			logger.Errorw("Config reload failed", logger.FieldError, err)
		}
	})
}

func (cw *ConfigWatcher) reload() error {
	Reset()
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	logger.AMInfow("Config reloaded", "files", len(cw.paths))

	cw.mu.RLock()
	callbacks := append([]ReloadCallback(nil), cw.callbacks...)
	cw.mu.RUnlock()

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			logger.Warnw("Config reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching and waits for the watch loop to exit.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	started := cw.started
	cw.mu.Unlock()
	err := cw.watcher.Close()
	if started {
		<-cw.done
	}
	return err
}

func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back")
}

// SetGlobalWatcher registers the watcher told about kin's own writes.
func SetGlobalWatcher(w *ConfigWatcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = w
}
