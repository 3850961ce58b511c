// Package main is the entry point for the editcore editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/editcore/internal/config"
	"github.com/dshills/editcore/internal/config/notify"
	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
	"github.com/dshills/editcore/internal/script"
	"github.com/dshills/editcore/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds parsed command-line flags.
type options struct {
	ConfigPath  string
	Language    string
	LogLevel    string
	ScriptPath  string
	Print       bool
	ShowVersion bool
	File        string
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "editcore %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger := cfg.Logger(stderr)

	ed, err := openEditor(opts, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer ed.Close()

	if opts.ScriptPath != "" {
		if err := runScript(ed, opts.ScriptPath, stdout, logger); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if !opts.Print {
			if err := writeResult(ed, opts.File, stdout); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			return 0
		}
	}

	if opts.Print {
		printSummary(stdout, ed, opts.File)
		return 0
	}

	if err := runTUI(ed, opts.File, configPath, cfg, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fset := flag.NewFlagSet("editcore", flag.ContinueOnError)
	fset.SetOutput(stderr)

	fset.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	fset.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fset.StringVar(&opts.Language, "lang", "", "Language id (rust, javascript, typescript, python, java, go, dart)")
	fset.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fset.StringVar(&opts.ScriptPath, "script", "", "Run a Lua script against the file instead of opening the editor")
	fset.BoolVar(&opts.Print, "print", false, "Print a summary of the file and exit (with -script, nothing is written)")
	fset.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fset.BoolVar(&opts.ShowVersion, "v", false, "Show version information (shorthand)")

	fset.Usage = func() {
		fmt.Fprintf(stderr, "editcore - a small text editor\n\n")
		fmt.Fprintf(stderr, "Usage: editcore [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fset.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  editcore main.go                  Edit a file\n")
		fmt.Fprintf(stderr, "  editcore -print main.go           Show line count and syntax status\n")
		fmt.Fprintf(stderr, "  editcore -script fix.lua main.go  Apply a script and save the result\n")
	}

	if err := fset.Parse(args); err != nil {
		return opts, err
	}

	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
		}
	}

	switch fset.NArg() {
	case 0:
	case 1:
		opts.File = fset.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", fset.NArg())
	}
	return opts, nil
}

// openEditor loads the file into a new editor. A file that does not exist
// yet opens as an empty document.
func openEditor(opts options, cfg *config.Config, logger *logging.Logger) (*engine.Editor, error) {
	lang := detectLanguage(opts, cfg)
	editorOpts := append(cfg.EditorOptions(),
		engine.WithLanguage(lang),
		engine.WithLogger(logger),
	)

	if opts.File == "" {
		return engine.New(editorOpts...), nil
	}

	f, err := os.Open(opts.File)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("new file %s", opts.File)
		return engine.New(editorOpts...), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ed, err := engine.NewFromReader(f, editorOpts...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.File, err)
	}
	logger.Debug("opened %s (%d lines, %s)", opts.File, ed.LineCount(), ed.Language())
	return ed, nil
}

// detectLanguage picks the language from the -lang flag, then the file
// extension, then the configured default.
func detectLanguage(opts options, cfg *config.Config) syntax.Language {
	if opts.Language != "" {
		return syntax.ParseLanguage(opts.Language)
	}
	if lang := syntax.LanguageForPath(opts.File); lang != syntax.PlainText {
		return lang
	}
	return cfg.Language()
}

func runScript(ed *engine.Editor, path string, stdout io.Writer, logger *logging.Logger) error {
	runner := script.New(ed, script.WithOutput(stdout), script.WithLogger(logger))
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runner.RunFile(ctx, path)
}

// writeResult saves a changed document back to its file, or prints it when
// there is no file.
func writeResult(ed *engine.Editor, path string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, ed.Content())
		return err
	}
	if !ed.IsDirty() {
		return nil
	}
	if err := os.WriteFile(path, []byte(ed.Content()), 0o644); err != nil {
		return err
	}
	ed.MarkSaved()
	return nil
}

func printSummary(w io.Writer, ed *engine.Editor, path string) {
	name := path
	if name == "" {
		name = "(no file)"
	}
	fmt.Fprintf(w, "file: %s\n", name)
	fmt.Fprintf(w, "language: %s\n", ed.Language())
	fmt.Fprintf(w, "lines: %d\n", ed.LineCount())
	fmt.Fprintf(w, "bytes: %d\n", ed.Len())
	fmt.Fprintf(w, "dirty: %t\n", ed.IsDirty())
	fmt.Fprintf(w, "syntax errors: %t\n", ed.HasSyntaxError())
}

func runTUI(ed *engine.Editor, path, configPath string, cfg *config.Config, logger *logging.Logger) error {
	app, err := tui.New(ed,
		tui.WithPath(path),
		tui.WithTabWidth(cfg.Editor.TabWidth),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// Live reload only applies to a config file that exists.
	if _, err := os.Stat(configPath); err == nil {
		reloader, err := config.Watch(configPath, logger)
		if err != nil {
			logger.Warn("config reload disabled: %v", err)
		} else {
			defer reloader.Close()
			apply := func(change notify.Change) {
				logger.Debug("config %s: %v -> %v", change.Path, change.OldValue, change.NewValue)
				_ = app.Post(func() error {
					applyConfig(reloader.Current(), app, logger)
					return nil
				})
			}
			reloader.SubscribePath("editor", apply)
			reloader.SubscribePath("logging.level", apply)
		}
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			_ = app.Quit()
		}
	}()

	return app.Run()
}

// applyConfig applies the settings that can change while editing. Syntax
// and language settings take effect for newly opened files only.
func applyConfig(cfg *config.Config, app *tui.App, logger *logging.Logger) {
	if level, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	app.Editor().SetMaxUndoHistory(cfg.Editor.MaxUndoHistory)
	app.SetTabWidth(cfg.Editor.TabWidth)
}
