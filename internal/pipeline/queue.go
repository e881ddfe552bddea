package pipeline

import "sync"

// queue is the one genuinely shared data structure in a stage: a job
// list many workers pop from. Pop order is unspecified; nothing may
// depend on which worker takes which job.
type queue[T any] struct {
	mu   sync.Mutex
	jobs []T
}

func newQueue[T any](jobs []T) *queue[T] {
	return &queue[T]{jobs: jobs}
}

// pop removes and returns the next job, or reports that the list is
// drained.
func (q *queue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.jobs) == 0 {
		return zero, false
	}
	job := q.jobs[len(q.jobs)-1]
	q.jobs = q.jobs[:len(q.jobs)-1]
	return job, true
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
