package memory

import (
	"sync"
	"sync/atomic"
)

// Scheduler runs tasks after the current turn of the host event loop.
type Scheduler interface {
	Schedule(task func())
}

// TaskQueue is a FIFO microtask queue: tasks run when the host calls RunPending,
// and tasks scheduled while it runs execute in the same call.
type TaskQueue struct {
	mu      sync.Mutex
	tasks   []func()
	maxRun  int
	running atomic.Bool

	panics atomic.Uint64
}

var _ Scheduler = (*TaskQueue)(nil)

// NewTaskQueue creates a queue executing at most maxPerRun tasks per RunPending.
func NewTaskQueue(maxPerRun int) *TaskQueue {
	if maxPerRun < 1 {
		maxPerRun = 1024
	}
	return &TaskQueue{maxRun: maxPerRun}
}

func (q *TaskQueue) Schedule(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// RunPending executes queued tasks in order and returns how many ran. A nested
// call from inside a task returns 0; the outer call picks up the new tasks.
func (q *TaskQueue) RunPending() int {
	if !q.running.CompareAndSwap(false, true) {
		return 0
	}
	defer q.running.Store(false)

	ran := 0
	for ran < q.maxRun {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			break
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.run(task)
		ran++
	}
	return ran
}

// Len returns the number of tasks waiting.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Panics returns how many tasks panicked.
func (q *TaskQueue) Panics() uint64 { return q.panics.Load() }

func (q *TaskQueue) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.panics.Add(1)
		}
	}()
	task()
}
