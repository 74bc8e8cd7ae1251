package recorder

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/backmassage/snipgif/internal/naming"
)

// frameWatcher fires once the first frame file appears in a directory.
type frameWatcher struct {
	w     *fsnotify.Watcher
	ready chan struct{}
	once  sync.Once
}

// watchFirstFrame starts watching dir. It must be called before the capture
// process is launched so the first frame cannot be missed.
func watchFirstFrame(dir string) (*frameWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	fw := &frameWatcher{w: w, ready: make(chan struct{})}
	go fw.loop()
	return fw, nil
}

func (fw *frameWatcher) loop() {
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				if naming.IsFrameName(filepath.Base(ev.Name)) {
					fw.once.Do(func() { close(fw.ready) })
					return
				}
			}
		case _, ok := <-fw.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Ready is closed when the first frame has been seen.
func (fw *frameWatcher) Ready() <-chan struct{} { return fw.ready }

// Close stops watching. The loop goroutine exits once the watcher's
// channels are closed.
func (fw *frameWatcher) Close() error { return fw.w.Close() }
