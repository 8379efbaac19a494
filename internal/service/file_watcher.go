package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches linked exported Markdown files and re-imports a
// document when its file is modified externally (another editor, a sync
// tool). Events for one save often arrive in bursts; a short suppression
// window keeps that to a single reload.
type FileWatcher struct {
	svc     *DocumentService
	watcher *fsnotify.Watcher

	mu         sync.Mutex
	docByPath  map[string]string // absolute file path -> document id
	lastReload map[string]time.Time
	cancel     context.CancelFunc
}

// NewFileWatcher creates a watcher bound to the document service.
func NewFileWatcher(svc *DocumentService) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		svc:        svc,
		watcher:    w,
		docByPath:  map[string]string{},
		lastReload: map[string]time.Time{},
	}, nil
}

// Watch registers a linked file for a document. The containing directory is
// watched so editors that replace files on save (write to temp + rename)
// are still seen.
func (fw *FileWatcher) Watch(docID, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fw.mu.Lock()
	fw.docByPath[abs] = docID
	fw.mu.Unlock()
	return fw.watcher.Add(filepath.Dir(abs))
}

// Unwatch removes a file registration.
func (fw *FileWatcher) Unwatch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	fw.mu.Lock()
	delete(fw.docByPath, abs)
	fw.mu.Unlock()
}

// Start begins the event loop; it stops when ctx is cancelled or Stop is
// called.
func (fw *FileWatcher) Start(ctx context.Context) {
	ctx, fw.cancel = context.WithCancel(ctx)
	go fw.loop(ctx)
}

// Stop terminates the event loop and closes the watcher.
func (fw *FileWatcher) Stop() {
	if fw.cancel != nil {
		fw.cancel()
	}
	fw.watcher.Close()
}

func (fw *FileWatcher) loop(ctx context.Context) {
	for {
		select {
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.handleChange(ev.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "err", err)
		case <-ctx.Done():
			return
		}
	}
}

func (fw *FileWatcher) handleChange(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	fw.mu.Lock()
	docID, watched := fw.docByPath[abs]
	if watched {
		if time.Since(fw.lastReload[abs]) < 500*time.Millisecond {
			watched = false // burst from a single save, already handled
		} else {
			fw.lastReload[abs] = time.Now()
		}
	}
	fw.mu.Unlock()
	if !watched {
		return
	}
	if err := fw.svc.ReloadFromFile(docID, abs); err != nil {
		slog.Warn("reload linked file", "doc", docID, "path", abs, "err", err)
	}
}
