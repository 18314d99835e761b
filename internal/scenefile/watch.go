package scenefile

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/logger"
)

// Watcher reports changes to one file. The parent directory is watched so
// editors that save by renaming over the file are still seen.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	err     error
}

// Watch starts watching path.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts into one pending notification.
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("scene watcher error", zap.String("path", w.path), zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Changed reports, without blocking, whether the file changed since the
// last call.
func (w *Watcher) Changed() bool {
	select {
	case <-w.changed:
		return true
	default:
		return false
	}
}

// C delivers one value per burst of changes.
func (w *Watcher) C() <-chan struct{} { return w.changed }

// Close stops watching. Later calls return the first result.
func (w *Watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.err = w.watcher.Close()
		w.wg.Wait()
	})
	return w.err
}
