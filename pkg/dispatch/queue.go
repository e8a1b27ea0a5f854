// Package dispatch provides the serial callback queue on which asynchronous
// session and control-server completions are delivered.
//
// Network I/O for the async APIs runs on its own goroutine; the completion is
// then posted to a Queue, so all completions observed by a test run one at a
// time, in posting order, on the queue's goroutine.
package dispatch

import (
	"sync"
)

// Queue runs posted functions one at a time, in order, on a dedicated goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	stopped bool

	wake      chan struct{}
	stopCh    chan struct{}
	stoppedCh chan struct{}
	stopOnce  sync.Once
}

// NewQueue creates a queue and starts its goroutine.
func NewQueue() *Queue {
	q := &Queue{
		wake:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	go q.loop()
	return q
}

var mainQueue = sync.OnceValue(NewQueue)

// Main returns the process-wide queue. It is never stopped.
func Main() *Queue {
	return mainQueue()
}

// Post schedules fn. After Stop, fn runs on the caller's goroutine instead so
// that a completion is never lost.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		fn()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Stop drains the pending functions and stops the goroutine.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stopCh)
	})
	<-q.stoppedCh
}

func (q *Queue) loop() {
	defer close(q.stoppedCh)

	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.stopCh:
			q.mu.Lock()
			q.stopped = true
			q.mu.Unlock()
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}
