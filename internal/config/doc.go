// Package config provides the configuration system for editcore.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← EDITCORE_EDITOR_TAB_WIDTH=2
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/editcore/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The file may be TOML or YAML. Each layer is read into a map by the
// loader sub-package and merged before being decoded into a Config, so a
// file only needs to name the settings it changes:
//
//	[editor]
//	maxUndoHistory = 500
//	defaultLanguage = "go"
//
//	[logging]
//	level = "debug"
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: fsnotify-based file watching for live reload
//   - notify: per-setting change notification
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//		return err
//	}
//	e := engine.New(cfg.EditorOptions()...)
//
// Use Watch to keep a configuration current with its file and observe
// individual settings:
//
//	r, err := config.Watch(path, logger)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	r.SubscribePath("editor.tabWidth", func(c notify.Change) {
//		fmt.Println("tab width is now", c.NewValue)
//	})
package config
