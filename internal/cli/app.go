// Package cli implements Splinter's interactive shell and its command
// modules, built against the internal/shm boundary surface. None of
// this package's correctness matters to the store's invariants; it is
// a consumer.
package cli

import (
	"io"

	"go.uber.org/zap"

	"github.com/splinter-kv/splinter/internal/config"
	"github.com/splinter-kv/splinter/internal/metrics"
	"github.com/splinter-kv/splinter/internal/shm"
)

// Process exit codes shared by the shell and the standalone utilities.
const (
	ExitOK             = 0
	ExitUserError      = 1
	ExitIOError        = 2
	ExitReadFailure    = 3
	ExitNotImplemented = 254
)

// App holds everything one invocation of the shell (REPL or
// non-interactive) needs: the resolved configuration, the currently
// selected store (nil until "use"/"init" succeeds), and the streams
// commands write to.
type App struct {
	Cfg     config.Config
	Store   *shm.Store
	Name    string
	WorkDir string
	Out     io.Writer
	ErrOut  io.Writer
	Logger  *zap.Logger
	Metrics metrics.Sink
	hist    []string
}

// History returns the commands entered so far in this session, oldest
// first. The REPL appends to it via recordHistory; non-interactive
// invocations leave it empty.
func (a *App) History() []string {
	return a.hist
}

func (a *App) recordHistory(line string) {
	a.hist = append(a.hist, line)
}

// NewApp builds an App from resolved configuration.
func NewApp(cfg config.Config, workDir string, out, errOut io.Writer, logger *zap.Logger, sink metrics.Sink) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = metrics.Noop
	}
	return &App{Cfg: cfg, WorkDir: workDir, Out: out, ErrOut: errOut, Logger: logger, Metrics: sink}
}

// resolveName applies SPLINTER_NS_PREFIX to a bare bus name.
func (a *App) resolveName(name string) string {
	if name == "" {
		name = a.Cfg.Bus
	}
	if a.Cfg.NSPrefix != "" {
		return a.Cfg.NSPrefix + name
	}
	return name
}

func (a *App) storeOpts() []shm.Option {
	var opts []shm.Option
	opts = append(opts, shm.WithLogger(a.Logger))
	if a.Cfg.Persistent != "" {
		opts = append(opts, shm.WithPersistentDir(a.Cfg.Persistent))
	}
	return opts
}

// ensureOpen returns an error-printing helper's precondition: a store
// must already be selected via "use" or "init".
func (a *App) ensureOpen() bool {
	if a.Store == nil {
		io.WriteString(a.ErrOut, "error: no store open (try 'use' or 'init' first)\n")
		return false
	}
	return true
}

// Close releases the currently open store, if any.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}
