// Package lifecycle lets an event handler hand its unfinished work back to
// the host, which must wait on it before reclaiming the execution context.
package lifecycle

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is pending work started by a handler.
type Task struct {
	done chan struct{}
	err  error
}

// Go starts fn and returns the pending task.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = fn(ctx)
	}()
	return t
}

// Done returns an already finished task.
func Done(err error) *Task {
	t := &Task{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finished reports whether the task has completed.
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Scope is the host side: it collects tasks and refuses to let go until all
// of them finished.
type Scope struct {
	mu    sync.Mutex
	tasks []*Task
}

func NewScope() *Scope {
	return &Scope{}
}

// WaitUntil extends the scope's lifetime until t finishes.
func (s *Scope) WaitUntil(t *Task) {
	if t == nil {
		return
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
}

// Drain waits for every registered task and returns the first error.
func (s *Scope) Drain(ctx context.Context) error {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			return t.Wait(gctx)
		})
	}
	return g.Wait()
}
