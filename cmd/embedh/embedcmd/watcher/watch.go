package watcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Sources watches the parent directories of the given files and forwards
// events for exactly those files. Watching the directory rather than the
// file itself keeps events flowing across the write-temp-then-rename save
// strategy most editors use.
func Sources(ctx context.Context, paths []string, events chan<- fsnotify.Event, errs chan<- error) (*SourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	include := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		include[filepath.Clean(p)] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	sw := &SourceWatcher{w: w, include: include}
	go sw.loop(ctx, events, errs)
	return sw, nil
}

type SourceWatcher struct {
	w       *fsnotify.Watcher
	include map[string]struct{}
}

func (sw *SourceWatcher) Close() error {
	return sw.w.Close()
}

func (sw *SourceWatcher) loop(ctx context.Context, events chan<- fsnotify.Event, errs chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if !sw.shouldForward(event) {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			select {
			case errs <- err:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (sw *SourceWatcher) shouldForward(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	_, ok := sw.include[filepath.Clean(event.Name)]
	return ok
}
