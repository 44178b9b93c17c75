package file

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/haldiza/recapd/internal/logger"
)

// Watcher reloads settings when the config file changes on disk. Editors
// commonly replace the file by rename, so the parent directory is watched
// and events are filtered by name.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	reload func() error
	done   chan struct{}
}

// NewWatcher starts watching the directory containing path. reload is
// invoked for every write or create event on the file itself.
func NewWatcher(path string, reload func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		path:   path,
		reload: reload,
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				logger.Debug("config file changed, reloading")
				if err := w.reload(); err != nil {
					logger.Warn("config reload: %v", err)
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}
