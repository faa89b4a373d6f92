package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	// DefaultMax default lane buffer
	DefaultMax = 256
)

// ErrLaneClosed returned for work offered after Close
var ErrLaneClosed = errors.New("lane closed")

type job struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// Lane single writer queue, jobs run one at a time in admission order
type Lane struct {
	jobs   chan *job
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewLane new lane with a buffer of size pending jobs
func NewLane(size int) *Lane {
	if size <= 0 {
		size = DefaultMax
	}

	l := &Lane{
		jobs: make(chan *job, size),
		done: make(chan struct{}),
	}

	go l.drain()
	return l
}

// Do run fn on the lane and wait for its result.
//
// A context cancelled before admission rejects the job. Once admitted the job
// runs to completion and Do waits for it regardless of ctx.
func (l *Lane) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j := &job{
		ctx:    context.WithoutCancel(ctx),
		fn:     fn,
		result: make(chan error, 1),
	}

	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return ErrLaneClosed
	}

	select {
	case l.jobs <- j:
		l.mu.RUnlock()
	case <-ctx.Done():
		l.mu.RUnlock()
		return ctx.Err()
	}

	return <-j.result
}

// Pending number of admitted jobs waiting to run
func (l *Lane) Pending() int {
	return len(l.jobs)
}

// Close stop admitting jobs, run the admitted ones and wait for the drain loop
func (l *Lane) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.jobs)
	}
	l.mu.Unlock()

	<-l.done
}

func (l *Lane) drain() {
	defer close(l.done)

	for j := range l.jobs {
		j.result <- run(j)
	}
}

func run(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lane: panic: %v", r)
		}
	}()

	return j.fn(j.ctx)
}
