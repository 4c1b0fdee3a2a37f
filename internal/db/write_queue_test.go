package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecell/internal/testutil"
)

func TestWriteQueue_RunsJobsAndReportsOutcome(t *testing.T) {
	q := NewWriteQueue(8, 2, time.Second)
	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	boom := errors.New("boom")
	var mu sync.Mutex
	var outcomes []error
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, err)
	}

	require.NoError(t, q.Enqueue(func(context.Context) error { return nil }, record))
	require.NoError(t, q.Enqueue(func(context.Context) error { return boom }, record))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(outcomes) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []error{nil, boom}, outcomes)
}

func TestWriteQueue_FullQueueRejects(t *testing.T) {
	q := NewWriteQueue(1, 1, time.Second)

	// No workers yet: the single slot fills up.
	require.NoError(t, q.Enqueue(func(context.Context) error { return nil }, nil))
	assert.ErrorIs(t, q.Enqueue(func(context.Context) error { return nil }, nil), ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestWriteQueue_DrainsOnShutdown(t *testing.T) {
	q := NewWriteQueue(16, 1, time.Second)

	var ran atomic.Int32
	for range 10 {
		require.NoError(t, q.Enqueue(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ran.Add(1)
			return nil
		}, nil))
	}

	ctx, cancel := testutil.ContextWithCancel(t)
	cancel()
	require.NoError(t, q.Run(ctx))

	assert.Equal(t, int32(10), ran.Load())
	assert.ErrorIs(t, q.Enqueue(func(context.Context) error { return nil }, nil), ErrQueueClosed)
}

func TestWriteQueue_PanickingJobReportsError(t *testing.T) {
	q := NewWriteQueue(4, 1, time.Second)

	var got atomic.Value
	require.NoError(t, q.Enqueue(func(context.Context) error { panic("bad write") }, func(err error) {
		got.Store(err)
	}))

	ctx, cancel := testutil.ContextWithCancel(t)
	cancel()
	require.NoError(t, q.Run(ctx))

	err, _ := got.Load().(error)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestWriteQueue_JobTimeout(t *testing.T) {
	q := NewWriteQueue(4, 1, 20*time.Millisecond)

	var got atomic.Value
	require.NoError(t, q.Enqueue(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, func(err error) { got.Store(err) }))

	ctx, cancel := testutil.ContextWithCancel(t)
	cancel()
	require.NoError(t, q.Run(ctx))

	err, _ := got.Load().(error)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewWriteQueue_InvalidSizes(t *testing.T) {
	assert.Panics(t, func() { NewWriteQueue(0, 1, time.Second) })
	assert.Panics(t, func() { NewWriteQueue(1, 0, time.Second) })
}
