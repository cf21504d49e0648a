package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localizr/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	futureString := async.Async(ctx, 42, func(_ context.Context, n int) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return fmt.Sprintf("Number: %d", n), nil
	})
	futureBool := async.Async(ctx, "test", func(_ context.Context, s string) (bool, error) {
		return len(s) > 0, nil
	})

	s, err := futureString.Await()
	require.NoError(t, err)
	assert.Equal(t, "Number: 42", s)

	b, err := futureBool.Await()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestAsyncError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
		return 0, boom
	})
	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestAsyncPreCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	f := async.Async(ctx, 1, func(context.Context, int) (int, error) {
		called.Store(true)
		return 1, nil
	})
	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.IsComplete())

	close(release)
	v, err := f.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, f.IsComplete())
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	slow := async.Async(context.Background(), 0, func(ctx context.Context, _ int) (int, error) {
		time.Sleep(100 * time.Millisecond)
		return 1, nil
	})
	_, err := slow.AwaitWithTimeout(5 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)

	fast := async.Resolved(2, nil)
	v, err := fast.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestResolved(t *testing.T) {
	t.Parallel()
	f := async.Resolved("ready", nil)
	assert.True(t, f.IsComplete())
	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future is not done")
	}
	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	t.Run("collects results in order", func(t *testing.T) {
		t.Parallel()
		futures := make([]*async.Future[int], 5)
		for i := range futures {
			futures[i] = async.Async(context.Background(), i, func(_ context.Context, n int) (int, error) {
				time.Sleep(time.Duration(5-n) * time.Millisecond)
				return n * n, nil
			})
		}
		results, err := async.WaitAll(futures...)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 4, 9, 16}, results)
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		results, err := async.WaitAll(
			async.Resolved(1, nil),
			async.Resolved(0, boom),
			async.Resolved(3, nil),
		)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []int{1, 0, 0}, results)
	})
}
