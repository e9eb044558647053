package app

import (
	"context"
	"fmt"
	"os"
	"time"

	fsw "github.com/corey/mbench/internal/adapters/fsnotify"
	"github.com/corey/mbench/internal/ports"
)

// WatchFile calls onText with the file's contents after every debounced
// change until ctx is cancelled. Read failures (a save caught mid-rename)
// go to onError and the watch continues.
func WatchFile(ctx context.Context, path string, watcher ports.Watcher, onText func(text string), onError func(error)) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if onError == nil {
		onError = func(error) {}
	}

	if err := watcher.Watch(path, func(changed string) {
		data, err := os.ReadFile(changed)
		if err != nil {
			onError(fmt.Errorf("read %s: %w", changed, err))
			return
		}
		onText(string(data))
	}); err != nil {
		watcher.Stop()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	<-ctx.Done()
	return watcher.Stop()
}

// NewFileWatcher returns an fsnotify-backed watcher.
func NewFileWatcher(debounce time.Duration) (ports.Watcher, error) {
	w, err := fsw.NewWatcher(debounce)
	if err != nil {
		return nil, err
	}
	return w, nil
}
