// Package memory provides the in-process xintersect.Coordinator: one per
// document, batching every observer's delivery request into a single pass run
// from a microtask queue.
package memory

import (
	"sync"
	"sync/atomic"
	"weak"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"

	"github.com/trickstertwo/xintersect"
)

// Coordinator implements xintersect.Coordinator for a single document.
// Observers are held weakly and swept in creation order.
type Coordinator struct {
	cfg       Config
	tasks     *TaskQueue
	scheduler Scheduler
	logger    *xlog.Logger
	clock     xclock.Clock

	mu        sync.Mutex
	observers []weak.Pointer[xintersect.Observer]
	scheduled bool

	metrics coordinatorMetrics
}

type coordinatorMetrics struct {
	requests  atomic.Uint64
	passes    atomic.Uint64
	notified  atomic.Uint64
	failures  atomic.Uint64
	pruned    atomic.Uint64
	destroyed atomic.Uint64
}

// Stats is a snapshot of coordinator counters.
type Stats struct {
	Observers int
	Requests  uint64
	Passes    uint64
	Notified  uint64
	Failures  uint64
	Pruned    uint64
	Destroyed uint64
	Scheduled bool
}

var _ xintersect.Coordinator = (*Coordinator)(nil)

// New creates a coordinator. Without WithScheduler, passes are queued on an
// internal TaskQueue that Flush (or Tick) runs.
func New(cfg Config, opts ...Option) *Coordinator {
	if cfg.Document == "" {
		cfg.Document = Defaults().Document
	}
	if cfg.MaxTasksPerRun < 1 {
		cfg.MaxTasksPerRun = Defaults().MaxTasksPerRun
	}
	c := &Coordinator{cfg: cfg}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	if c.scheduler == nil {
		c.tasks = NewTaskQueue(cfg.MaxTasksPerRun)
		c.scheduler = c.tasks
	}
	if c.logger == nil {
		c.logger = xlog.Default()
	}
	if c.clock == nil {
		c.clock = xclock.Default()
	}
	c.logger = c.logger.With(xlog.Str("document", cfg.Document))
	return c
}

// Document returns the coordinator's document label.
func (c *Coordinator) Document() string { return c.cfg.Document }

func (c *Coordinator) OnObserverCreated(o *xintersect.Observer) {
	if o == nil {
		return
	}
	wp := weak.Make(o)
	c.mu.Lock()
	c.observers = append(c.live(), wp)
	c.mu.Unlock()
}

func (c *Coordinator) OnObserverDestroyed(o *xintersect.Observer) {
	if o == nil {
		return
	}
	wp := weak.Make(o)
	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.live()
	for i, s := range live {
		if s == wp {
			c.observers = append(live[:i], live[i+1:]...)
			c.metrics.destroyed.Add(1)
			return
		}
	}
	c.observers = live
}

// RequestDeliveryPass schedules one pass; requests before it runs coalesce.
func (c *Coordinator) RequestDeliveryPass(_ *xintersect.Observer) {
	c.metrics.requests.Add(1)
	c.mu.Lock()
	if c.scheduled {
		c.mu.Unlock()
		return
	}
	c.scheduled = true
	c.mu.Unlock()

	c.scheduler.Schedule(c.DeliverNotifications)
}

// DeliverNotifications calls Notify on every live observer in creation order.
// A failing observer never stops the sweep.
func (c *Coordinator) DeliverNotifications() {
	c.mu.Lock()
	c.scheduled = false
	observers := c.snapshot()
	c.mu.Unlock()

	start := c.clock.Now()
	for _, o := range observers {
		c.metrics.notified.Add(1)
		if err := o.Notify(); err != nil {
			c.metrics.failures.Add(1)
			c.logger.Debug().Err(err).Str("observer_id", o.ID()).Msg("xintersect: notify failed")
		}
	}
	c.metrics.passes.Add(1)

	if d := c.clock.Since(start); c.cfg.SlowPass > 0 && d > c.cfg.SlowPass {
		c.logger.Warn().Dur("dur", d).Msg("xintersect: slow delivery pass")
	}
}

// UpdateIntersections runs the recompute pass for every live observer.
func (c *Coordinator) UpdateIntersections() {
	c.mu.Lock()
	observers := c.snapshot()
	c.mu.Unlock()

	for _, o := range observers {
		o.UpdateObservationTargets()
	}
}

// Flush runs pending tasks on the internal queue. It returns how many ran and
// is a no-op when an external scheduler was supplied.
func (c *Coordinator) Flush() int {
	if c.tasks == nil {
		return 0
	}
	return c.tasks.RunPending()
}

// Tick is one update cycle: recompute, then deliver.
func (c *Coordinator) Tick() {
	c.UpdateIntersections()
	c.Flush()
}

// Observers returns the live observers in creation order.
func (c *Coordinator) Observers() []*xintersect.Observer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	n := len(c.snapshot())
	scheduled := c.scheduled
	c.mu.Unlock()

	return Stats{
		Observers: n,
		Requests:  c.metrics.requests.Load(),
		Passes:    c.metrics.passes.Load(),
		Notified:  c.metrics.notified.Load(),
		Failures:  c.metrics.failures.Load(),
		Pruned:    c.metrics.pruned.Load(),
		Destroyed: c.metrics.destroyed.Load(),
		Scheduled: scheduled,
	}
}

// snapshot prunes reclaimed observers and returns the rest. Caller holds c.mu.
func (c *Coordinator) snapshot() []*xintersect.Observer {
	c.observers = c.live()
	out := make([]*xintersect.Observer, 0, len(c.observers))
	for _, s := range c.observers {
		if o := s.Value(); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// live compacts away cleared weak pointers. Caller holds c.mu.
func (c *Coordinator) live() []weak.Pointer[xintersect.Observer] {
	kept := c.observers[:0]
	for _, s := range c.observers {
		if s.Value() != nil {
			kept = append(kept, s)
			continue
		}
		c.metrics.pruned.Add(1)
	}
	clear(c.observers[len(kept):])
	return kept
}
