package services

import (
	"io"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"

	fferrors "filefusion/internal/errors"
)

// FolderWatcher reports changes inside one folder at a time. Events are
// coalesced: a burst of writes yields a single pending notification.
type FolderWatcher struct {
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	changes chan string

	mu      sync.Mutex
	current string
	done    chan struct{}
	once    sync.Once
}

func NewFolderWatcher(logger *slog.Logger) (*FolderWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fferrors.Wrapf(err, fferrors.ErrIO, "starting folder watcher")
	}
	folderWatcher := &FolderWatcher{
		logger:  logger.With("component", "watcher"),
		watcher: watcher,
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}
	go folderWatcher.run()
	return folderWatcher, nil
}

// Watch replaces the watched folder with path. An empty path stops watching.
func (folderWatcher *FolderWatcher) Watch(path string) error {
	path = cleanPath(path)
	folderWatcher.mu.Lock()
	defer folderWatcher.mu.Unlock()

	if path == folderWatcher.current {
		return nil
	}
	if folderWatcher.current != "" {
		_ = folderWatcher.watcher.Remove(folderWatcher.current)
		folderWatcher.current = ""
	}
	if path == "" {
		return nil
	}
	if err := folderWatcher.watcher.Add(path); err != nil {
		return fferrors.Wrapf(err, fferrors.ErrIO, "watching %s", path)
	}
	folderWatcher.current = path
	folderWatcher.logger.Debug("watching folder", "path", path)
	return nil
}

func (folderWatcher *FolderWatcher) Changes() <-chan string {
	return folderWatcher.changes
}

func (folderWatcher *FolderWatcher) Close() error {
	var err error
	folderWatcher.once.Do(func() {
		close(folderWatcher.done)
		err = folderWatcher.watcher.Close()
	})
	return err
}

func (folderWatcher *FolderWatcher) run() {
	for {
		select {
		case <-folderWatcher.done:
			return
		case event, ok := <-folderWatcher.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			folderWatcher.mu.Lock()
			folder := folderWatcher.current
			folderWatcher.mu.Unlock()
			if folder == "" {
				continue
			}
			select {
			case folderWatcher.changes <- folder:
			default:
			}
		case err, ok := <-folderWatcher.watcher.Errors:
			if !ok {
				return
			}
			folderWatcher.logger.Warn("watch error", "error", err)
		}
	}
}
