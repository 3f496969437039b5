package bootstrap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil and hooks still run", func(t *testing.T) {
		app := New()
		closed := false
		app.AddCloser("db", func() error {
			closed = true
			return nil
		})
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, closed)
	})

	t.Run("run returns error", func(t *testing.T) {
		app := New()
		want := errors.New("run failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
	})

	t.Run("run error and hook error are joined", func(t *testing.T) {
		app := New()
		runErr := errors.New("run failed")
		hookErr := errors.New("close failed")
		app.AddCloser("nats", func() error { return hookErr })

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return runErr
		})
		assert.ErrorIs(t, err, runErr)
		assert.ErrorIs(t, err, hookErr)
	})

	t.Run("shutdown hooks run in LIFO order on context cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string
		record := func(name string) func(ctx context.Context) error {
			return func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			}
		}
		app.AddShutdownHook(record("first"))
		app.AddShutdownHook(record("second"))
		app.AddShutdownHook(record("third"))

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("waits for run to finish after cancel before closing", func(t *testing.T) {
		app := New()
		var closed atomic.Bool
		app.AddCloser("db", func() error {
			closed.Store(true)
			return nil
		})
		drainErr := errors.New("drain failed")

		ctx, cancel := context.WithCancel(context.Background())
		var closedDuringRun bool
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			time.Sleep(20 * time.Millisecond)
			closedDuringRun = closed.Load()
			return drainErr
		})
		assert.False(t, closedDuringRun)
		assert.True(t, closed.Load())
		assert.ErrorIs(t, err, drainErr)
	})

	t.Run("gives up after the grace period", func(t *testing.T) {
		app := New()
		app.gracePeriod = 10 * time.Millisecond
		closed := false
		app.AddCloser("db", func() error {
			closed = true
			return nil
		})
		release := make(chan struct{})
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := app.Run(ctx, func(ctx context.Context) error {
			<-release
			return nil
		})
		assert.ErrorIs(t, err, ErrGracePeriodExceeded)
		assert.True(t, closed)
	})

	t.Run("hook registered from inside run callback", func(t *testing.T) {
		app := New()
		hookCalled := make(chan struct{}, 1)

		err := app.Run(context.Background(), func(ctx context.Context) error {
			app.AddShutdownHook(func(ctx context.Context) error {
				hookCalled <- struct{}{}
				return nil
			})
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, hookCalled, 1)
	})
}

func TestApp_Shutdown(t *testing.T) {
	app := New()
	calls := 0
	app.AddCloser("db", func() error {
		calls++
		return nil
	})

	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}
