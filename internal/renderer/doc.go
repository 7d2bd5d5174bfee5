// Package renderer paints a wrapped document onto a terminal backend.
//
// The renderer is responsible for:
//   - Scrolling so the caret stays on screen
//   - Tab expansion and wide-rune layout
//   - Mapping decorations to palette colors
//   - Skipping frames when nothing visible changed
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│   core: Cell │ Style │ Palette          │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend         │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	_ = term.Init()
//	r := renderer.New(term, doc, renderer.WithTabWidth(4))
//	r.Render()
package renderer
