package engine

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a level file on disk and reports debounced change
// events. The engine consumes them at the next frame boundary and reloads
// the level through a full scene re-init, so the reload goes through the
// same arena resets as a regular scene swap.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the directory containing path and reports changes to
// that file.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    filepath.Clean(path),
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = now
			select {
			case w.Events <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// pathResolver is implemented by asset loaders that can map an asset path
// to its on-disk location, which the file watcher needs.
type pathResolver interface {
	Abs(path string) string
}

// WatchLevel enables hot reload for the most recently loaded level. When
// the file changes, the current scene is re-adopted at the next frame
// boundary, which re-runs its Init and reloads the level.
func (e *Engine) WatchLevel() error {
	if e.lastLevel.path == "" {
		return nil
	}
	if e.watcher != nil {
		_ = e.watcher.Close()
		e.watcher = nil
	}
	path := e.lastLevel.path
	if r, ok := e.assets.(pathResolver); ok {
		path = r.Abs(path)
	}
	w, err := NewWatcher(path)
	if err != nil {
		return err
	}
	e.watcher = w
	return nil
}

// rememberLevel records how the current level was loaded so hot reload can
// repeat it.
func (e *Engine) rememberLevel(ref levelRef) {
	e.lastLevel = ref
}

// drainWatcher turns pending file events into a deferred scene re-init.
func (e *Engine) drainWatcher() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case p := <-e.watcher.Events:
			e.log.Info("level changed on disk, scheduling reload", zap.String("path", p))
			if e.sceneNext == nil && e.scene != nil {
				e.sceneNext = e.scene
			}
		case err := <-e.watcher.Errors:
			e.log.Warn("level watcher error", zap.Error(err))
		default:
			return
		}
	}
}
