// Package bootstrap runs a long-lived process until it finishes or the OS asks it to stop.
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

const DefaultShutdownTimeout = 10 * time.Second

type shutdownHook struct {
	name string
	fn   func(ctx context.Context) error
}

// App runs one function and, when interrupted, calls the registered shutdown hooks.
type App struct {
	mu              sync.Mutex
	hooks           []shutdownHook
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

type Option func(*App)

// WithShutdownTimeout bounds how long the shutdown hooks may take together.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

func New(opts ...Option) *App {
	a := &App{
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddShutdownHook registers fn under name. Hooks run in reverse registration order and
// may be added from inside the run function.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, shutdownHook{name: name, fn: fn})
}

// Run calls run with a context that is cancelled on SIGINT or SIGTERM.
// If run returns before any cancellation, its error is returned and no hook is called.
// Otherwise every hook runs and their errors are joined.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return a.shutdown(context.Cause(ctx))
	case err := <-errCh:
		// run may have returned because it saw the cancellation first.
		if ctx.Err() != nil {
			return errors.Join(err, a.shutdown(context.Cause(ctx)))
		}
		return err
	}
}

func (a *App) shutdown(reason error) error {
	a.logger.Info("shutting down", "reason", reason)
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hook := a.hooks[i]
		if err := hook.fn(ctx); err != nil {
			a.logger.Error("shutdown hook failed", "hook", hook.name, "error", err)
			errs = append(errs, fmt.Errorf("%s > %w", hook.name, err))
		}
	}
	return errors.Join(errs...)
}
