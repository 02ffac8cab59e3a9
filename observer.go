package xintersect

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Observer tracks targets, buffers their crossing entries and hands them to its
// callback in batches when the coordinator runs a delivery pass.
//
// The internal lock is never held while calling out to targets, the coordinator,
// hooks or the callback, so all of them may call back into the observer.
type Observer struct {
	id         string
	document   string
	root       Element
	margin     Margin
	thresholds ThresholdSet

	callback    Callback
	coordinator Coordinator
	clock       xclock.Clock
	logger      *xlog.Logger
	hooks       []Hook
	report      ErrorReporter

	mu        sync.Mutex
	targets   registry
	queue     entryQueue
	requested bool

	metrics   observerMetrics
	closed    atomic.Bool
	closeOnce sync.Once
}

// ID returns the observer's identity (a UUIDv7).
func (o *Observer) ID() string { return o.id }

// Document returns the label of the document the observer was built for.
func (o *Observer) Document() string { return o.document }

// Root returns the configured or resolved root element.
func (o *Observer) Root() Element { return o.root }

// Margin returns the normalized root margin.
func (o *Observer) Margin() Margin { return o.margin }

// RootMargin returns the normalized root margin text.
func (o *Observer) RootMargin() string { return o.margin.String() }

// Thresholds returns a copy of the sorted thresholds.
func (o *Observer) Thresholds() []float64 { return o.thresholds.Values() }

// ThresholdSet returns the observer's thresholds for crossing computations.
func (o *Observer) ThresholdSet() ThresholdSet { return o.thresholds }

// Targets returns the tracked targets in observe order.
func (o *Observer) Targets() []Element {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.targets.snapshot()
}

// Pending returns the number of queued entries.
func (o *Observer) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queue.len()
}

// Closed reports whether Close was called.
func (o *Observer) Closed() bool { return o.closed.Load() }

// Observe starts tracking target. Observing a tracked target is a no-op.
// A nil target is a precondition violation: it is logged and ignored.
func (o *Observer) Observe(target Element) {
	if target == nil {
		o.precondition("observe")
		return
	}
	if o.closed.Load() {
		return
	}

	o.mu.Lock()
	added := o.targets.observe(target)
	o.mu.Unlock()

	if !added {
		return
	}
	target.RegisterIntersectionObserver(o)
	o.emit(Event{Type: EventObserve})
}

// Unobserve stops tracking target. Unknown targets are ignored.
func (o *Observer) Unobserve(target Element) {
	if target == nil {
		o.precondition("unobserve")
		return
	}

	o.mu.Lock()
	removed := o.targets.unobserve(target)
	o.mu.Unlock()

	if !removed {
		return
	}
	target.UnregisterIntersectionObserver(o)
	o.emit(Event{Type: EventUnobserve})
}

// Disconnect stops tracking every target and discards all pending entries.
func (o *Observer) Disconnect() {
	o.mu.Lock()
	targets := o.targets.clear()
	dropped := o.queue.clear()
	o.requested = false
	o.mu.Unlock()

	for _, t := range targets {
		t.UnregisterIntersectionObserver(o)
	}
	o.emit(Event{Type: EventDisconnected, Entries: dropped})
}

// TakeRecords drains the queue without invoking the callback. The next queued
// entry requests a fresh delivery pass.
func (o *Observer) TakeRecords() []*Entry {
	o.mu.Lock()
	out := o.queue.take()
	o.requested = false
	o.mu.Unlock()

	o.metrics.taken.Add(uint64(len(out)))
	return out
}

// QueueEntry appends an entry and asks the coordinator for a delivery pass.
// Only the first entry into an empty queue issues a request.
func (o *Observer) QueueEntry(e *Entry) {
	if e == nil {
		return
	}
	if o.closed.Load() {
		o.metrics.dropped.Add(1)
		return
	}
	if e.Time.IsZero() {
		e.Time = o.clock.Now()
	}

	o.mu.Lock()
	n := o.queue.push(e)
	request := !o.requested
	o.requested = true
	o.mu.Unlock()

	o.metrics.queued.Add(1)
	o.emit(Event{Type: EventQueued, Entries: n})

	if request {
		o.metrics.requests.Add(1)
		o.coordinator.RequestDeliveryPass(o)
	}
}

// Notify delivers the queued batch to the callback exactly once. An empty queue
// returns nil without invoking the callback. A failing callback is reported and
// its *CallbackError returned; the batch is never re-queued.
func (o *Observer) Notify() error {
	if o.closed.Load() {
		return ErrObserverClosed
	}

	o.mu.Lock()
	o.requested = false
	if o.queue.len() == 0 {
		o.mu.Unlock()
		return nil
	}
	batch := o.queue.take()
	o.mu.Unlock()

	start := o.clock.Now()
	err := o.callback(batch, o)
	duration := o.clock.Since(start)

	if err != nil {
		var cbErr *CallbackError
		if !errors.As(err, &cbErr) {
			cbErr = &CallbackError{ObserverID: o.id, Err: err}
		}
		o.metrics.callbackErrors.Add(1)
		o.report(cbErr)
		o.emit(Event{Type: EventCallbackFailed, Entries: len(batch), Duration: duration, Err: cbErr})
		return cbErr
	}

	o.metrics.batches.Add(1)
	o.metrics.delivered.Add(uint64(len(batch)))
	o.emit(Event{Type: EventDelivered, Entries: len(batch), Duration: duration})
	return nil
}

// UpdateObservationTargets asks each tracked target, in observe order, to
// recompute its intersection and queues any entry it produces. Targets
// unobserved while the pass runs are skipped; targets observed during it wait
// for the next pass.
func (o *Observer) UpdateObservationTargets() {
	if o.closed.Load() {
		return
	}

	o.mu.Lock()
	snapshot := o.targets.snapshot()
	gen := o.targets.gen
	o.mu.Unlock()

	for _, t := range snapshot {
		o.mu.Lock()
		live := o.targets.gen == gen || o.targets.contains(t)
		o.mu.Unlock()
		if !live {
			continue
		}

		e := t.ComputeIntersection(o)
		if e == nil {
			continue
		}
		if e.Target == nil {
			e.Target = t
		}
		o.QueueEntry(e)
	}
}

// TargetDisposed is called by a target that is being destroyed. Its slot is
// released and reclaimed on the next registry mutation.
func (o *Observer) TargetDisposed(target Element) {
	if target == nil {
		return
	}
	o.mu.Lock()
	o.targets.release(target)
	o.mu.Unlock()
}

// Close destroys the observer: it deregisters from every tracked target and from
// the coordinator. Close is idempotent; later calls to the observer are no-ops.
func (o *Observer) Close() error {
	o.closeOnce.Do(func() {
		o.closed.Store(true)

		o.mu.Lock()
		targets := o.targets.clear()
		dropped := o.queue.clear()
		o.mu.Unlock()

		for _, t := range targets {
			t.UnregisterIntersectionObserver(o)
		}
		o.metrics.dropped.Add(uint64(dropped))
		o.coordinator.OnObserverDestroyed(o)
		o.emit(Event{Type: EventDestroyed, Entries: dropped})
	})
	return nil
}

// Stats returns a snapshot of the observer's counters.
func (o *Observer) Stats() Stats {
	o.mu.Lock()
	observed, pending := o.targets.len(), o.queue.len()
	o.mu.Unlock()

	return Stats{
		Observed:        observed,
		Pending:         pending,
		Queued:          o.metrics.queued.Load(),
		Delivered:       o.metrics.delivered.Load(),
		Batches:         o.metrics.batches.Load(),
		Taken:           o.metrics.taken.Load(),
		CallbackErrors:  o.metrics.callbackErrors.Load(),
		DroppedOnClose:  o.metrics.dropped.Load(),
		DeliveryRequest: o.metrics.requests.Load(),
	}
}

// precondition handles a nil target: a contract violation by the caller, logged
// and otherwise ignored.
func (o *Observer) precondition(op string) {
	o.logger.Warn().Str("op", op).Str("observer_id", o.id).Msg("xintersect: nil target (precondition violation)")
	o.emit(Event{Type: EventPrecondition, Err: ErrNilTarget})
}

func (o *Observer) emit(e Event) {
	if len(o.hooks) == 0 {
		return
	}
	e.ObserverID = o.id
	e.Document = o.document
	for _, h := range o.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Warn().Str("event", string(e.Type)).Msg("xintersect: hook panic (recovered)")
				}
			}()
			h.OnEvent(e)
		}()
	}
}
