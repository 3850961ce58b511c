package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/logging"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single Run when the caller's context has no
// deadline.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua code against one Editor.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs.
// The editor must not be used concurrently while a script runs.
type Runner struct {
	L *lua.LState

	mu      sync.Mutex
	editor  *engine.Editor
	logger  *logging.Logger
	output  io.Writer
	timeout time.Duration
	closed  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.output = w
	}
}

// WithLogger sets the logger used by editor.log.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout sets the default run timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New creates a sandboxed runner bound to e.
func New(e *engine.Editor, opts ...Option) *Runner {
	r := &Runner{
		editor:  e,
		logger:  logging.Nop(),
		output:  os.Stdout,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	installSandbox(r.L, r.output)
	registerEditor(r.L, &editorModule{editor: e, logger: r.logger})
	return r
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// Run executes code. It stops when ctx is cancelled or the runner's
// timeout elapses, whichever comes first.
func (r *Runner) Run(ctx context.Context, code string) error {
	return r.do(ctx, "<string>", func() error { return r.L.DoString(code) })
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.do(ctx, path, func() error { return r.L.DoFile(path) })
}

func (r *Runner) do(ctx context.Context, source string, fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s: lua panic: %v", source, p)
		}
	}()

	start := time.Now()
	if err := fn(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("script %s: %w", source, ctxErr)
		}
		return fmt.Errorf("script %s: %w", source, err)
	}
	r.logger.Debug("ran %s in %s", source, time.Since(start))
	return nil
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
