package loop

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
)

var ErrStopped = errors.New("event loop stopped")

// Loop runs tasks one at a time on a single goroutine.
// Store commands and bus dispatches happen only inside tasks, so state needs no locking.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

func New(buffer int) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Loop] Task panicked: %v\n%s", r, debug.Stack())
		}
	}()
	task()
}

// Post queues a task. It must not be called from inside a task when the queue may be full.
func (l *Loop) Post(task func()) {
	select {
	case l.tasks <- task:
	case <-l.done:
		log.Printf("[Loop] Dropping task posted after shutdown")
	}
}

// Do queues a task and waits until it has run
func (l *Loop) Do(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		task()
	}

	select {
	case l.tasks <- wrapped:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go runs blocking work on its own goroutine and posts the continuation it returns back to the loop
func (l *Loop) Go(work func() func()) {
	go func() {
		if next := work(); next != nil {
			l.Post(next)
		}
	}()
}
