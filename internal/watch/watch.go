// Package watch reloads line art when its file changes on disk.
package watch

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Settle is how long a file must be quiet before a change is delivered.
// Editors often write a file in several steps.
const Settle = 150 * time.Millisecond

// File watches one file and calls onChange after it is written, created or
// renamed into place. The parent directory is watched so replacements made
// by rename are seen too.
type File struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(path string)

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

func Watch(path string, onChange func(path string)) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	f := &File{
		path:     abs,
		watcher:  w,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	f.wg.Add(1)
	go f.loop()
	log.Printf("[WATCH] watching %s", abs)
	return f, nil
}

func (f *File) loop() {
	defer f.wg.Done()
	for {
		select {
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				f.schedule()
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCH] %s: %v", f.path, err)
		}
	}
}

func (f *File) schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(Settle, func() {
		select {
		case <-f.done:
			return
		default:
		}
		log.Printf("[WATCH] %s changed", f.path)
		f.onChange(f.path)
	})
}

// Close stops watching. No callback starts after Close returns.
func (f *File) Close() error {
	close(f.done)
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.mu.Unlock()
	err := f.watcher.Close()
	f.wg.Wait()
	return err
}
