package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch processes bill documents as they appear in dir, until ctx is
// cancelled. Create/write/rename bursts for the same file are coalesced with
// the given debounce. Documents present before the watch started are not
// reprocessed; failures are logged and do not stop the watch.
func (r *Runner) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	slog.Info("watching for bill documents", "dir", dir)

	pending := map[string]struct{}{}
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !isBillDocument(e.Name) {
				continue
			}
			pending[e.Name] = struct{}{}
			if debounce <= 0 {
				r.drain(pending)
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			r.drain(pending)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// drain processes and clears everything pending. Watch events arrive one at
// a time so this runs on the watch goroutine; no pool is needed here.
func (r *Runner) drain(pending map[string]struct{}) {
	for path := range pending {
		delete(pending, path)
		r.processOne(path)
	}
}
