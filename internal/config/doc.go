// Package config provides typed settings for wrapstore.
//
// Settings are assembled from three layers, later layers overriding
// earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← WRAPSTORE_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← wrapstore.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML and environment variable loading
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	s, err := config.Load("wrapstore.toml")
//	if err != nil {
//	    return err
//	}
//	width := s.Editor.WrapWidth
//
// A settings file looks like:
//
//	[editor]
//	wrapWidth = 72
//	tabWidth = 4
//
//	[logging]
//	level = "debug"
//	format = "json"
//
//	[render]
//	palette = ["#d0d0d0", "#ff5f5f"]
//
// # Live Reload
//
// Watch reloads the file whenever it changes and hands valid settings to a
// callback. Invalid edits are logged and ignored, so the last good settings
// stay in effect.
package config
