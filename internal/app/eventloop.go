package app

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/wrapstore/internal/engine"
	"github.com/dshills/wrapstore/internal/renderer/backend"
)

// Run initializes the backend and runs the event loop until quit or
// Shutdown. A quit request returns nil.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.renderer = app.newRenderer()
	err := app.eventLoop(app.startInputPolling())
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// eventLoop handles input and settings reloads, repainting after each.
func (app *Application) eventLoop(events <-chan backend.Event) error {
	app.renderer.Render()
	for {
		select {
		case <-app.done:
			return nil

		case s := <-app.reloads:
			app.applySettings(s)

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				return err
			}
		}
		app.renderer.Render()
	}
}

// startInputPolling forwards backend events to the returned channel.
//
// PollEvent blocks, so the goroutine exits only once the backend is shut
// down or a quit is observed.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)
		for {
			ev := app.backend.PollEvent()
			if ev.Type == backend.EventInterrupt && !app.running.Load() {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
			if ev.Type == backend.EventKey && isQuitKey(ev) {
				return
			}
		}
	}()

	return events
}

func isQuitKey(ev backend.Event) bool {
	return ev.Key == backend.KeyCtrlQ || ev.Key == backend.KeyEscape
}

// handleBackendEvent routes a backend event. It returns ErrQuit when the
// application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventResize:
		// The renderer repaints on any size change.
		return nil
	default:
		return nil
	}
}

// handleKey applies one key press to the document.
func (app *Application) handleKey(ev backend.Event) error {
	doc := app.file.Doc
	var err error
	switch ev.Key {
	case backend.KeyCtrlQ, backend.KeyEscape:
		return ErrQuit
	case backend.KeyCtrlS:
		if err := app.file.Save(); err != nil {
			app.log.Warn("save failed", zap.Error(err))
		} else {
			app.log.Info("saved", zap.String("path", app.file.Path))
		}
		return nil
	case backend.KeyRune:
		err = doc.Insert(ev.Rune)
	case backend.KeyEnter:
		err = doc.Insert('\n')
	case backend.KeyTab:
		err = doc.Insert('\t')
	case backend.KeyBackspace:
		_, err = doc.Remove()
	case backend.KeyLeft:
		doc.MoveLeft()
	case backend.KeyRight:
		doc.MoveRight()
	case backend.KeyUp:
		doc.MoveUp()
	case backend.KeyDown:
		doc.MoveDown()
	}
	if err != nil && !errors.Is(err, engine.ErrReadOnly) {
		app.log.Debug("key not applied", zap.Error(err))
	}
	return nil
}
