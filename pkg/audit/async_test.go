package audit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-io/storekit/pkg/audit"
)

func TestAsyncSink(t *testing.T) {
	t.Parallel()

	incident := func() audit.Incident {
		return audit.Incident{Kind: "tenant_mismatch", Severity: audit.SeverityCritical}
	}

	t.Run("delivers to wrapped sink", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var delivered []audit.Incident
		next := audit.SinkFunc(func(ctx context.Context, inc audit.Incident) error {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, inc)
			return nil
		})

		sink, closer := audit.NewAsyncSink(next, audit.AsyncOptions{})
		for range 10 {
			require.NoError(t, sink.Record(context.Background(), incident()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closer(ctx))

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, delivered, 10)
		for _, inc := range delivered {
			assert.NotEmpty(t, inc.ID, "incidents are stamped before hand-off")
		}
	})

	t.Run("full buffer never blocks the caller", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		next := audit.SinkFunc(func(ctx context.Context, inc audit.Incident) error {
			<-release
			return nil
		})

		var fallback bytes.Buffer
		sink, closer := audit.NewAsyncSink(next, audit.AsyncOptions{
			BufferSize: 1,
			Fallback:   slog.New(slog.NewTextHandler(&fallback, nil)),
		})

		start := time.Now()
		for range 20 {
			require.NoError(t, sink.Record(context.Background(), incident()))
		}
		assert.Less(t, time.Since(start), time.Second, "Record must not wait on the worker")
		assert.Contains(t, fallback.String(), "audit incident not delivered")

		close(release)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closer(ctx))
	})

	t.Run("wrapped sink failure goes to fallback", func(t *testing.T) {
		t.Parallel()

		next := audit.SinkFunc(func(ctx context.Context, inc audit.Incident) error {
			return errors.New("backend down")
		})

		var fallback bytes.Buffer
		sink, closer := audit.NewAsyncSink(next, audit.AsyncOptions{
			Fallback: slog.New(slog.NewTextHandler(&fallback, nil)),
		})

		require.NoError(t, sink.Record(context.Background(), incident()))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closer(ctx))

		assert.Contains(t, fallback.String(), "audit incident not delivered")
		assert.Contains(t, fallback.String(), "backend down")
	})

	t.Run("close drains buffered incidents", func(t *testing.T) {
		t.Parallel()

		var delivered atomic.Int64
		next := audit.SinkFunc(func(ctx context.Context, inc audit.Incident) error {
			delivered.Add(1)
			return nil
		})

		sink, closer := audit.NewAsyncSink(next, audit.AsyncOptions{BufferSize: 64})
		for range 50 {
			require.NoError(t, sink.Record(context.Background(), incident()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closer(ctx))
		assert.EqualValues(t, 50, delivered.Load())
	})

	t.Run("record after close", func(t *testing.T) {
		t.Parallel()

		var fallback bytes.Buffer
		sink, closer := audit.NewAsyncSink(
			audit.SinkFunc(func(ctx context.Context, inc audit.Incident) error { return nil }),
			audit.AsyncOptions{Fallback: slog.New(slog.NewTextHandler(&fallback, nil))},
		)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closer(ctx))

		err := sink.Record(context.Background(), incident())
		require.ErrorIs(t, err, audit.ErrSinkClosed)
		assert.Contains(t, fallback.String(), "audit incident not delivered")
	})

	t.Run("rejects invalid incident synchronously", func(t *testing.T) {
		t.Parallel()

		sink, closer := audit.NewAsyncSink(
			audit.SinkFunc(func(ctx context.Context, inc audit.Incident) error { return nil }),
			audit.AsyncOptions{},
		)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = closer(ctx)
		}()

		err := sink.Record(context.Background(), audit.Incident{})
		require.ErrorIs(t, err, audit.ErrIncidentValidation)
	})

	t.Run("nil wrapped sink panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { audit.NewAsyncSink(nil, audit.AsyncOptions{}) })
	})
}
