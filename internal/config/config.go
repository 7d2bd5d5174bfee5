package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/wrapstore/internal/config/loader"
	"github.com/dshills/wrapstore/internal/logging"
)

// Settings holds every configurable value.
type Settings struct {
	Editor  EditorSettings  `toml:"editor"`
	Logging LoggingSettings `toml:"logging"`
	Render  RenderSettings  `toml:"render"`
}

// EditorSettings configures the document.
type EditorSettings struct {
	// WrapWidth is the maximum wrapped line length. 0 disables wrapping.
	WrapWidth int `toml:"wrapWidth"`
	// TabWidth is the display width of a tab stop.
	TabWidth int `toml:"tabWidth"`
	// ReadOnly opens documents read-only.
	ReadOnly bool `toml:"readOnly"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// RenderSettings configures the terminal renderer.
type RenderSettings struct {
	// Palette maps decoration indexes to "#rrggbb" colors. Entry 0 is the
	// default foreground.
	Palette []string `toml:"palette"`
	// WrapMarker is drawn in the column after a soft-wrapped line.
	WrapMarker string `toml:"wrapMarker"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Editor: EditorSettings{
			WrapWidth: 80,
			TabWidth:  4,
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: string(logging.FormatConsole),
		},
		Render: RenderSettings{
			Palette:    []string{"#d0d0d0", "#ff5f5f", "#5fd75f", "#5f87ff", "#ffd75f", "#af87ff"},
			WrapMarker: "↩",
		},
	}
}

// Validate checks every setting and returns all problems joined.
func (s *Settings) Validate() error {
	var errs []error
	if s.Editor.WrapWidth < 0 {
		errs = append(errs, &ValidationError{"editor.wrapWidth", s.Editor.WrapWidth, "must not be negative"})
	}
	if s.Editor.TabWidth < 1 || s.Editor.TabWidth > 16 {
		errs = append(errs, &ValidationError{"editor.tabWidth", s.Editor.TabWidth, "must be between 1 and 16"})
	}
	if _, err := logging.ParseLevel(s.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{"logging.level", s.Logging.Level, err.Error()})
	}
	switch logging.Format(s.Logging.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, &ValidationError{"logging.format", s.Logging.Format, "must be console or json"})
	}
	if len(s.Render.Palette) == 0 {
		errs = append(errs, &ValidationError{"render.palette", s.Render.Palette, "must have at least one color"})
	}
	for i, c := range s.Render.Palette {
		if _, err := colorful.Hex(c); err != nil {
			errs = append(errs, &ValidationError{fmt.Sprintf("render.palette[%d]", i), c, "must be a #rrggbb color"})
		}
	}
	return errors.Join(errs...)
}

// LoggingConfig converts the logging settings for the logging package.
func (s *Settings) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = s.Logging.Level
	cfg.Format = logging.Format(s.Logging.Format)
	return cfg
}

// Loader assembles settings from defaults, a TOML file and the
// environment.
type Loader struct {
	file *loader.TOMLLoader
	env  *loader.EnvLoader
}

// NewLoader creates a loader for the settings file at path. An empty path
// skips the file layer.
func NewLoader(path string) *Loader {
	l := &Loader{env: loader.NewEnvLoader(loader.DefaultEnvPrefix)}
	if path != "" {
		l.file = loader.NewTOMLLoader(path)
	}
	return l
}

// NewLoaderWith creates a loader from explicit sources, for tests and
// embedding.
func NewLoaderWith(file *loader.TOMLLoader, env *loader.EnvLoader) *Loader {
	return &Loader{file: file, env: env}
}

// Path returns the settings file path, or "" without a file layer.
func (l *Loader) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Path()
}

// Load reads and validates the settings.
func (l *Loader) Load() (*Settings, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	for _, src := range l.sources() {
		layer, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, layer)
	}

	data, err := toml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	s := &Settings{}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (l *Loader) sources() []loader.Loader {
	var out []loader.Loader
	if l.file != nil {
		out = append(out, l.file)
	}
	if l.env != nil {
		out = append(out, l.env)
	}
	return out
}

// Load reads settings from the file at path, the environment and the
// defaults.
func Load(path string) (*Settings, error) {
	return NewLoader(path).Load()
}

// toMap converts settings to the nested map form loaders produce.
func toMap(s *Settings) (map[string]any, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
