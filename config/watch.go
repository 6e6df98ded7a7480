package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/philipp01105/rollinglog/handler"
)

// WatchCallback receives every reloaded config, or the error that
// prevented the reload
type WatchCallback func(cfg Config, err error)

// WatchOption configures Watch
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce sets how long Watch waits for further events before
// reloading (default: 100ms)
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// Watch reloads the file at path whenever it changes and passes the
// result to fn. It blocks until ctx is done and then returns nil.
//
// The parent directory is watched rather than the file, so editors that
// save by writing a temporary file and renaming it are picked up.
func Watch(ctx context.Context, path string, fn WatchCallback, opts ...WatchOption) error {
	o := watchOptions{debounce: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := DetectFormat(path); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("config: watch directory %s: %w", dir, err)
	}
	name := filepath.Base(path)

	timer := time.NewTimer(o.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(o.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, fmt.Errorf("config: watch error: %w", err))

		case <-timer.C:
			cfg, err := Load(path)
			fn(cfg, err)
		}
	}
}

// BindEnabled returns a WatchCallback that applies the enabled flag of
// every reloaded config to t. Changes to any other field need a restart;
// they are logged against initial and otherwise ignored. Failed reloads
// are logged and leave t untouched.
func BindEnabled(initial Config, t handler.Toggler, log *zap.Logger) WatchCallback {
	if log == nil {
		log = zap.NewNop()
	}
	return func(cfg Config, err error) {
		if err != nil {
			log.Warn("config reload failed", zap.Error(err))
			return
		}
		if restartOnly(initial) != restartOnly(cfg) {
			log.Info("config changes other than enabled take effect after restart")
		}
		t.SetEnabled(cfg.Enabled)
	}
}

// restartOnly clears the fields that can change at runtime
func restartOnly(c Config) Config {
	c.Enabled = false
	return c
}
