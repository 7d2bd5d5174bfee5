package app

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/wrapstore/internal/config"
	"github.com/dshills/wrapstore/internal/engine"
	"github.com/dshills/wrapstore/internal/logging"
	"github.com/dshills/wrapstore/internal/renderer"
	"github.com/dshills/wrapstore/internal/renderer/backend"
	"github.com/dshills/wrapstore/internal/renderer/core"
	"github.com/dshills/wrapstore/internal/script"
)

// Application is the central coordinator for wrapedit.
// It owns the settings, the open file, the renderer and the event loop.
type Application struct {
	mu sync.Mutex

	settings *config.Settings
	loader   *config.Loader
	reloader *config.Reloader
	log      *zap.Logger
	logFile  *os.File

	file     *File
	scripts  *script.Engine
	backend  backend.Backend
	renderer *renderer.Renderer

	reloads chan *config.Settings
	running atomic.Bool
	done    chan struct{}
	once    sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the settings file. Empty uses defaults and
	// the environment only.
	ConfigPath string

	// File is the file to open. Empty opens a scratch document.
	File string

	// Encoding names the file's charset. Empty detects UTF-8 or UTF-16.
	Encoding string

	// WrapWidth overrides the configured wrap width when >= 0.
	WrapWidth int

	// ReadOnly opens the document read-only regardless of settings.
	ReadOnly bool

	// LogOutput receives log lines when the settings name no log file.
	// Nil discards them.
	LogOutput io.Writer

	// ScriptOutput receives print output from scripts. Nil uses stdout.
	ScriptOutput io.Writer

	// Watch reloads settings when the settings file changes.
	Watch bool
}

// New loads settings, sets up logging and opens the document.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		loader:  config.NewLoader(opts.ConfigPath),
		reloads: make(chan *config.Settings, 1),
		done:    make(chan struct{}),
	}

	settings, err := app.loader.Load()
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if opts.WrapWidth >= 0 {
		settings.Editor.WrapWidth = opts.WrapWidth
	}
	app.settings = settings

	if err := app.setupLogging(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}

	docOpts := []engine.Option{
		engine.WithWrapWidth(settings.Editor.WrapWidth),
		engine.WithLogger(app.log.Named("engine")),
	}
	if opts.ReadOnly || settings.Editor.ReadOnly {
		docOpts = append(docOpts, engine.WithReadOnly())
	}
	if opts.File == "" {
		app.file, err = ScratchFile(docOpts...)
	} else {
		app.file, err = OpenFile(opts.File, opts.Encoding, docOpts...)
	}
	if err != nil {
		app.closeLog()
		return nil, &InitError{Component: "document", Err: err}
	}

	app.scripts = script.New(app.file.Doc, script.WithOutput(opts.ScriptOutput))

	if opts.Watch && opts.ConfigPath != "" {
		app.reloader, err = config.Watch(app.loader, app.queueReload)
		if err != nil {
			app.log.Warn("settings watch unavailable", zap.Error(err))
		}
	}

	app.log.Info("application started",
		zap.String("file", app.file.Name()),
		zap.Int("wrap_width", settings.Editor.WrapWidth),
		zap.Stringer("doc", app.file.Doc.ID()))
	return app, nil
}

// setupLogging builds the logger from the settings and installs it as the
// shared logger.
func (app *Application) setupLogging() error {
	cfg := app.settings.LoggingConfig()
	switch {
	case app.settings.Logging.File != "":
		f, err := os.OpenFile(app.settings.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		cfg.Output = f
	case app.opts.LogOutput != nil:
		cfg.Output = app.opts.LogOutput
	default:
		cfg.Output = io.Discard
	}
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	app.log = log
	logging.SetLogger(log)
	return nil
}

func (app *Application) closeLog() {
	_ = app.log.Sync()
	if app.logFile != nil {
		app.logFile.Close()
		app.logFile = nil
	}
}

// File returns the open file.
func (app *Application) File() *File {
	return app.file
}

// Document returns the open document.
func (app *Application) Document() *engine.Document {
	return app.file.Doc
}

// Settings returns the settings in effect.
func (app *Application) Settings() *config.Settings {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.settings
}

// RunScript runs the Lua file at path against the document.
func (app *Application) RunScript(ctx context.Context, path string) error {
	return app.scripts.RunFile(ctx, path)
}

// RunScriptString runs Lua code against the document.
func (app *Application) RunScriptString(ctx context.Context, name, code string) error {
	return app.scripts.Run(ctx, name, code)
}

// SetBackend sets the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// queueReload hands reloaded settings to the event loop, replacing any
// reload not yet applied.
func (app *Application) queueReload(s *config.Settings) {
	for {
		select {
		case app.reloads <- s:
			return
		default:
		}
		select {
		case <-app.reloads:
		default:
		}
	}
}

// applySettings applies reloadable settings. The wrap width given on the
// command line is kept.
func (app *Application) applySettings(s *config.Settings) {
	if app.opts.WrapWidth >= 0 {
		s.Editor.WrapWidth = app.opts.WrapWidth
	}
	app.mu.Lock()
	app.settings = s
	app.mu.Unlock()

	if err := app.file.Doc.SetWrapWidth(s.Editor.WrapWidth); err != nil {
		app.log.Warn("wrap width not applied", zap.Error(err))
	}
	if app.renderer != nil {
		app.renderer.SetTabWidth(s.Editor.TabWidth)
		if p, err := core.NewPalette(s.Render.Palette); err == nil {
			app.renderer.SetPalette(p)
		}
	}
	app.log.Info("settings applied", zap.Int("wrap_width", s.Editor.WrapWidth))
}

// newRenderer builds the renderer from the current settings.
func (app *Application) newRenderer() *renderer.Renderer {
	s := app.Settings()
	opts := []renderer.Option{
		renderer.WithTabWidth(s.Editor.TabWidth),
		renderer.WithStatusLine(),
	}
	if p, err := core.NewPalette(s.Render.Palette); err == nil {
		opts = append(opts, renderer.WithPalette(p))
	}
	if marker := []rune(s.Render.WrapMarker); len(marker) > 0 {
		opts = append(opts, renderer.WithWrapMarker(marker[0]))
	}
	return renderer.New(app.backend, app.file.Doc, opts...)
}

// Shutdown stops the event loop and releases resources.
func (app *Application) Shutdown() {
	app.once.Do(func() {
		close(app.done)
		if app.reloader != nil {
			_ = app.reloader.Close()
		}
		app.scripts.Close()
		app.file.Doc.Close()
		app.log.Info("application stopped")
		app.closeLog()
	})
}
