package concurrency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaneSerializes(t *testing.T) {
	lane := NewLane(8)
	defer lane.Close()

	var (
		running int
		peak    int
		total   int
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := lane.Do(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				running++
				if running > peak {
					peak = running
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				total++
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, peak)
	assert.Equal(t, 50, total)
}

func TestLaneOrder(t *testing.T) {
	lane := NewLane(16)
	defer lane.Close()

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, lane.Do(context.Background(), func(ctx context.Context) error {
			order = append(order, i)
			return nil
		}))
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestLaneReturnsError(t *testing.T) {
	lane := NewLane(1)
	defer lane.Close()

	want := errors.New("boom")
	err := lane.Do(context.Background(), func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)

	err = lane.Do(context.Background(), func(ctx context.Context) error {
		panic("oops")
	})
	assert.EqualError(t, err, "lane: panic: oops")
}

func TestLaneRejectsCancelledContext(t *testing.T) {
	lane := NewLane(1)
	defer lane.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := lane.Do(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLaneRunsAdmittedJobToCompletion(t *testing.T) {
	lane := NewLane(1)
	defer lane.Close()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	finished := false

	go func() {
		<-started
		cancel()
	}()

	err := lane.Do(ctx, func(ctx context.Context) error {
		close(started)
		time.Sleep(20 * time.Millisecond)
		finished = ctx.Err() == nil
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, finished)
}

func TestLaneClose(t *testing.T) {
	lane := NewLane(4)
	lane.Close()
	lane.Close()

	err := lane.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrLaneClosed)
}
