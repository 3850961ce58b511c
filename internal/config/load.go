package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/editcore/internal/config/loader"
	"github.com/dshills/editcore/internal/config/notify"
	"github.com/dshills/editcore/internal/config/watcher"
	"github.com/dshills/editcore/internal/logging"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables that override file
// settings, e.g. EDITCORE_EDITOR_TAB_WIDTH.
const EnvPrefix = "EDITCORE_"

// envMapping names variables whose path cannot be derived from their name.
var envMapping = map[string]string{
	"EDITCORE_LOG_LEVEL": "logging.level",
	"EDITCORE_LANGUAGE":  "editor.defaultLanguage",
	"EDITCORE_CONFIG":    "",
}

// DefaultPath returns the user configuration file path.
func DefaultPath() string {
	if p := os.Getenv("EDITCORE_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "editcore", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "editcore", "config.toml")
}

// Load reads the configuration file at path, applies EDITCORE_*
// environment overrides and validates the result. A missing file, or an
// empty path, yields the defaults plus overrides. The format is chosen by
// extension: .yaml and .yml are YAML, anything else TOML.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load reading files from fsys.
func LoadFS(fsys loader.FileSystem, path string) (*Config, error) {
	var file map[string]any
	if path != "" {
		var err error
		file, err = loader.ForPath(fsys, path).Load()
		if err != nil {
			return nil, err
		}
	}

	env, err := loader.NewEnvLoaderWithMapping(EnvPrefix, cloneMapping()).Load()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := decode(loader.DeepMerge(file, env), cfg); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decode overlays the settings in data onto cfg. Settings absent from
// data keep their current values.
func decode(data map[string]any, cfg *Config) error {
	data = dropNil(data)
	if len(data) == 0 {
		return nil
	}
	raw, err := toml.Marshal(data)
	if err != nil {
		return err
	}
	return toml.Unmarshal(raw, cfg)
}

// dropNil removes null values, which YAML produces for empty keys.
func dropNil(m map[string]any) map[string]any {
	for k, v := range m {
		switch v := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			m[k] = dropNil(v)
		}
	}
	return m
}

func cloneMapping() map[string]string {
	m := make(map[string]string, len(envMapping))
	for k, v := range envMapping {
		m[k] = v
	}
	return m
}

// Reloader keeps a configuration current with its file and notifies
// subscribers of each setting that changes.
type Reloader struct {
	mu       sync.Mutex
	path     string
	fsys     loader.FileSystem
	current  *Config
	logger   *logging.Logger
	watcher  *watcher.Watcher
	notifier *notify.Notifier
}

// Watch loads path and reloads it whenever the file changes. A reload
// that fails to parse or validate is logged and the previous
// configuration stays in effect. The file's directory must exist.
func Watch(path string, logger *logging.Logger) (*Reloader, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	w, err := watcher.New()
	if err != nil {
		return nil, err
	}
	r := &Reloader{
		path:     path,
		fsys:     loader.DefaultFS(),
		current:  cfg,
		logger:   logger.WithComponent("config"),
		watcher:  w,
		notifier: notify.New(),
	}
	w.OnChange(r.handleFileChange)
	w.OnError(func(err error) { r.logger.Warn("watch %s: %v", path, err) })
	if err := w.Watch(path); err != nil {
		w.Close()
		return nil, err
	}
	return r, nil
}

// Current returns the configuration in effect.
func (r *Reloader) Current() *Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers an observer for every setting change.
func (r *Reloader) Subscribe(observer notify.Observer) *notify.Subscription {
	return r.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path, e.g.
// "editor" or "logging.level". Observers run on the watcher goroutine.
func (r *Reloader) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return r.notifier.SubscribePath(path, observer)
}

// Close stops watching and drops all subscriptions.
func (r *Reloader) Close() error {
	err := r.watcher.Close()
	r.notifier.Close()
	return err
}

func (r *Reloader) handleFileChange(event watcher.Event) {
	cfg, err := LoadFS(r.fsys, r.path)
	if err != nil {
		r.logger.Warn("reload after %s: %v", event.Op, err)
		return
	}

	r.mu.Lock()
	changes := Diff(r.current, cfg, r.path)
	if len(changes) > 0 {
		r.current = cfg
	}
	r.mu.Unlock()

	if len(changes) == 0 {
		return
	}
	r.logger.Info("reloaded %s (%d settings changed)", r.path, len(changes))
	r.notifier.Notify(changes...)
}
