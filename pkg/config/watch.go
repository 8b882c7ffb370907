package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the file at path whenever it is written or recreated and
// passes the result to fn. Bursts of events closer together than debounce
// produce one reload. The parent directory is watched so that editors that
// save by renaming are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func(*Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return configError("config.Watch", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return configError("config.Watch", fmt.Errorf("failed to create watcher: %w", err))
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return configError("config.Watch", fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err))
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, configError("config.Watch", err))
		case <-fire:
			fire = nil
			fn(Load(abs))
		}
	}
}
