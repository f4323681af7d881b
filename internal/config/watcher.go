package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/m96-chan/ASRMixingRouter/internal/logging"
)

var watcherLog = logging.For("config:watcher")

// debounceDelay absorbs partial writes: a burst of filesystem events
// collapses into a single reload attempt.
const debounceDelay = 100 * time.Millisecond

// Watcher observes a config file for modification events and emits the
// successfully reparsed config on Changes. Parse failures and I/O errors
// are logged; the previously loaded config is left untouched.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	changes chan AppConfig
	done    chan struct{}
}

// NewWatcher starts watching the directory containing path (fsnotify
// watches directories, not bare files, so editors that replace the file
// via rename are still observed).
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:    path,
		fsw:     fsw,
		changes: make(chan AppConfig),
		done:    make(chan struct{}),
	}, nil
}

// Changes returns the channel of successfully reparsed configs.
func (w *Watcher) Changes() <-chan AppConfig { return w.changes }

// Run drains filesystem events until Close is called, debouncing bursts
// and reloading only on Write or Create events targeting the watched path.
func (w *Watcher) Run() {
	defer close(w.changes)

	var pending *time.Timer
	var pendingC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.NewTimer(debounceDelay)
			pendingC = pending.C

		case <-pendingC:
			pendingC = nil
			cfg, err := LoadFromFile(w.path)
			if err != nil {
				watcherLog.Warn("config reload failed, keeping current config", "err", err)
				continue
			}
			select {
			case w.changes <- cfg:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			watcherLog.Warn("config watcher error", "err", err)

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
