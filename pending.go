package tyrant

import "sync"

// jobResult is delivered to a pendingJob's caller once the owner goroutine
// has decoded that command's reply.
type jobResult struct {
	val any
	err error
}

// pendingJob is one entry of the Transport's FIFO: the decoder for a single
// command's reply, plus a completion channel. decode is only ever invoked
// by the Transport's owner goroutine, after it has confirmed the leading
// status byte is zero; it may issue as many sequential reads against the
// shared frameReader as the command's reply shape needs.
type pendingJob struct {
	decode func(*frameReader) (any, error)
	done   chan jobResult

	prev, next *pendingJob
}

// pendingQueue is a FIFO of pendingJob entries, strictly ordered by send
// time (spec §3, Pending Request). Adapted from the teacher's hand-rolled
// doubly-linked List (data_structures.go): push at the tail on send, pop at
// the head once the owner goroutine is ready for the next reply. Same node
// shape as the teacher's List, repurposed from a cache value holding opaque
// bytes to a queue of in-flight command decoders.
type pendingQueue struct {
	mu         sync.Mutex
	cond       *sync.Cond
	head, tail *pendingJob
	length     int
	closed     bool
}

func newPendingQueue() *pendingQueue {
	q := &pendingQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues job at the tail. ok is false if the queue is already closed
// (ConnectionLost) — the caller must not have written its frame in that
// case, or must treat the write as wasted.
func (q *pendingQueue) push(job *pendingJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.tail == nil {
		q.head = job
		q.tail = job
	} else {
		q.tail.next = job
		job.prev = q.tail
		q.tail = job
	}
	q.length++
	q.cond.Signal()
	return true
}

// popFront blocks until the queue is non-empty or closed, then removes and
// returns the head entry.
func (q *pendingQueue) popFront() (*pendingJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == nil && !q.closed {
		q.cond.Wait()
	}
	if q.head == nil {
		return nil, false
	}

	job := q.head
	q.head = job.next
	if q.head != nil {
		q.head.prev = nil
	} else {
		q.tail = nil
	}
	job.next = nil
	q.length--
	return job, true
}

// len reports the current pipeline depth.
func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// closeWith fails every queued entry with err and rejects subsequent pushes
// with the same error (spec §4.2, "on socket close").
func (q *pendingQueue) closeWith(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true

	for job := q.head; job != nil; {
		next := job.next
		job.prev, job.next = nil, nil
		job.done <- jobResult{err: err}
		job = next
	}
	q.head, q.tail, q.length = nil, nil, 0
	q.cond.Broadcast()
}
