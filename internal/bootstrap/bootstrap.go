// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultGracePeriod is how long Run waits for run to return after a signal.
const DefaultGracePeriod = 10 * time.Second

// ErrGracePeriodExceeded is returned by Run when run is still busy after the
// grace period. Shutdown hooks run anyway.
var ErrGracePeriodExceeded = errors.New("run did not return within the grace period")

// App owns the resources opened by a command and releases them when the
// command finishes or the process is interrupted.
type App struct {
	mu          sync.Mutex
	hooks       []func(ctx context.Context) error
	gracePeriod time.Duration
}

// New creates a new App.
func New() *App {
	return &App{gracePeriod: DefaultGracePeriod}
}

// AddShutdownHook registers a function to call during shutdown.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// AddCloser registers the Close method of a resource as a shutdown hook.
func (a *App) AddCloser(name string, closer func() error) {
	a.AddShutdownHook(func(context.Context) error {
		slog.Debug("closing", "resource", name)
		return closer()
	})
}

// Run executes run with a context cancelled on SIGINT or SIGTERM. Once the
// context is done, run gets the grace period to return before the shutdown
// hooks run. Hooks run once, and errors from run come before hook errors.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		slog.Debug("waiting for run to return", "grace_period", a.gracePeriod)
		timer := time.NewTimer(a.gracePeriod)
		defer timer.Stop()
		select {
		case runErr = <-errCh:
		case <-timer.C:
			runErr = fmt.Errorf("%w (%s)", ErrGracePeriodExceeded, a.gracePeriod)
		}
	}
	return errors.Join(runErr, a.Shutdown(context.Background()))
}

// Shutdown calls the registered hooks in LIFO order and forgets them.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
