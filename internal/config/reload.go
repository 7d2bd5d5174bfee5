package config

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/wrapstore/internal/config/watcher"
	"github.com/dshills/wrapstore/internal/logging"
)

// Reloader re-reads settings whenever the settings file changes.
type Reloader struct {
	loader  *Loader
	watcher *watcher.Watcher
	apply   func(*Settings)
	log     *zap.Logger
}

// Watch starts reloading the loader's settings file. apply receives each
// valid reload; failed reloads are logged and skipped.
func Watch(l *Loader, apply func(*Settings), opts ...watcher.Option) (*Reloader, error) {
	if l.Path() == "" {
		return nil, errors.New("config: no settings file to watch")
	}
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(l.Path()); err != nil {
		_ = w.Close()
		return nil, err
	}
	r := &Reloader{
		loader:  l,
		watcher: w,
		apply:   apply,
		log:     logging.Logger().Named("config"),
	}
	w.OnChange(r.handle)
	w.Start()
	return r, nil
}

func (r *Reloader) handle(ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		r.log.Info("settings file removed, keeping current settings", zap.String("path", ev.Path))
		return
	}
	s, err := r.loader.Load()
	if err != nil {
		r.log.Warn("settings reload failed", zap.String("path", ev.Path), zap.Error(err))
		return
	}
	r.log.Info("settings reloaded", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
	r.apply(s)
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
