package device

import "sync"

type command struct {
	fn   func() error
	done chan struct{}
}

// queue is a sequential command queue: commands execute one at a time in
// submission order on a dedicated goroutine. The first error latches and
// suppresses every later command, so a failed trial cannot half-execute the
// commands queued behind it.
type queue struct {
	cmds chan command

	mu       sync.Mutex
	err      error
	released bool

	stopped chan struct{}
}

func newQueue() *queue {
	q := &queue{
		cmds:    make(chan command, 16),
		stopped: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *queue) loop() {
	defer close(q.stopped)
	for cmd := range q.cmds {
		if cmd.fn != nil && q.loadErr() == nil {
			if err := cmd.fn(); err != nil {
				q.setErr(err)
			}
		}
		if cmd.done != nil {
			close(cmd.done)
		}
	}
}

func (q *queue) enqueue(cmd command) error {
	q.mu.Lock()
	released := q.released
	q.mu.Unlock()
	if released {
		return newError(InvalidCommandQueue, "enqueue")
	}
	q.cmds <- cmd
	return nil
}

// finish blocks until every previously submitted command has drained, then
// reports the queue's latched error, if any.
func (q *queue) finish() error {
	done := make(chan struct{})
	if err := q.enqueue(command{done: done}); err != nil {
		return err
	}
	<-done
	return q.loadErr()
}

func (q *queue) release() {
	q.mu.Lock()
	if q.released {
		q.mu.Unlock()
		return
	}
	q.released = true
	q.mu.Unlock()
	close(q.cmds)
	<-q.stopped
}

func (q *queue) setErr(err error) {
	q.mu.Lock()
	if q.err == nil {
		q.err = err
	}
	q.mu.Unlock()
}

func (q *queue) loadErr() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}
