package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/pkg/errors"
)

var errQueueClosed = errors.New("write queue closed")

// writeQueue executes composite-document writers strictly one at a time in
// submission order. Each writer re-reads current state, so every writer sees
// the fully persisted result of the previous one; this is what keeps two
// concurrent read-modify-write cycles from clobbering each other. A failing
// or panicking writer is logged and does not block later writers.
type writeQueue struct {
	tasks  chan writeTask
	mu     sync.Mutex
	closed bool
}

type writeTask struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

func newWriteQueue() *writeQueue {
	q := &writeQueue{tasks: make(chan writeTask, 16)}
	go q.run()
	return q
}

func (q *writeQueue) run() {
	for task := range q.tasks {
		err := runWriter(task)
		if err != nil {
			log.Printf("write queue: writer failed: %v", err)
		}
		task.done <- err
	}
}

func runWriter(task writeTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("writer panicked: %v", r)
		}
	}()
	return task.fn(task.ctx)
}

// RunExclusive submits a writer and waits for its result. A writer submitted
// after Close is rejected instead of running.
func (q *writeQueue) RunExclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	task := writeTask{ctx: ctx, fn: fn, done: make(chan error, 1)}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errQueueClosed
	}
	q.tasks <- task
	q.mu.Unlock()
	return <-task.done
}

// Close stops accepting writers. Already-queued writers still run.
func (q *writeQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}
