package analysis

import "sync"

// ProgressFunc receives per-file progress updates. Percent is 0 when a file
// starts and 100 when it finishes.
type ProgressFunc func(percent float64, message string)

type progressEvent struct {
	percent float64
	message string
}

// progressQueue is an unbounded many-writer, single-reader event queue.
// Push never blocks; Close marks the end of the stream.
type progressQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	events []progressEvent
	closed bool
}

func newProgressQueue() *progressQueue {
	q := &progressQueue{}
	q.cond = sync.NewCond(&q.mu)

	return q
}

func (q *progressQueue) push(percent float64, file, stage string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.events = append(q.events, progressEvent{percent: percent, message: file + " - " + stage})
	q.cond.Signal()
}

// pop blocks until an event is available or the queue is closed and drained.
func (q *progressQueue) pop() (progressEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.events) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.events) == 0 {
		return progressEvent{}, false
	}

	event := q.events[0]
	q.events = q.events[1:]

	return event, true
}

func (q *progressQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// forward drains the queue into fn until the queue is closed and empty.
// It is the single reader.
func (q *progressQueue) forward(fn ProgressFunc) {
	for {
		event, ok := q.pop()
		if !ok {
			return
		}

		fn(event.percent, event.message)
	}
}
