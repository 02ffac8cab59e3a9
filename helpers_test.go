package xintersect

import (
	"sync"
)

// fakeCoordinator records lifecycle calls and delivery requests.
type fakeCoordinator struct {
	mu        sync.Mutex
	created   []*Observer
	destroyed []*Observer
	requests  int
}

func (c *fakeCoordinator) OnObserverCreated(o *Observer) {
	c.mu.Lock()
	c.created = append(c.created, o)
	c.mu.Unlock()
}

func (c *fakeCoordinator) OnObserverDestroyed(o *Observer) {
	c.mu.Lock()
	c.destroyed = append(c.destroyed, o)
	c.mu.Unlock()
}

func (c *fakeCoordinator) RequestDeliveryPass(*Observer) {
	c.mu.Lock()
	c.requests++
	c.mu.Unlock()
}

func (c *fakeCoordinator) requestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

// pendingOnlyCoordinator runs a pass on demand and notifies only the
// requesting observers that still have entries queued.
type pendingOnlyCoordinator struct {
	requests int
	waiting  []*Observer
}

func (c *pendingOnlyCoordinator) OnObserverCreated(*Observer)   {}
func (c *pendingOnlyCoordinator) OnObserverDestroyed(*Observer) {}

func (c *pendingOnlyCoordinator) RequestDeliveryPass(o *Observer) {
	c.requests++
	c.waiting = append(c.waiting, o)
}

func (c *pendingOnlyCoordinator) pass() {
	waiting := c.waiting
	c.waiting = nil
	for _, o := range waiting {
		if o.Pending() > 0 {
			_ = o.Notify()
		}
	}
}

// nopCoordinator keeps no references, so observers stay collectable.
type nopCoordinator struct{}

func (nopCoordinator) OnObserverCreated(*Observer)   {}
func (nopCoordinator) OnObserverDestroyed(*Observer) {}
func (nopCoordinator) RequestDeliveryPass(*Observer) {}

// fakeElement is a target whose ComputeIntersection returns a scripted entry.
type fakeElement struct {
	name string
	refs BackReferences

	registered   int
	unregistered int
	computed     int
	next         func(o *Observer) *Entry
}

func newElement(name string) *fakeElement { return &fakeElement{name: name} }

func (e *fakeElement) RegisterIntersectionObserver(o *Observer) {
	e.registered++
	e.refs.Register(o)
}

func (e *fakeElement) UnregisterIntersectionObserver(o *Observer) {
	e.unregistered++
	e.refs.Unregister(o)
}

func (e *fakeElement) ComputeIntersection(o *Observer) *Entry {
	e.computed++
	if e.next == nil {
		return nil
	}
	return e.next(o)
}

// alwaysCrossing makes every recompute yield an entry for the element.
func (e *fakeElement) alwaysCrossing(ratio float64) *fakeElement {
	e.next = func(*Observer) *Entry {
		return &Entry{Target: e, IsIntersecting: ratio > 0, IntersectionRatio: ratio}
	}
	return e
}

type fakeDocument struct{ root Element }

func (d fakeDocument) DefaultRootElement() Element { return d.root }

// recorder is a callback capturing every batch it receives.
type recorder struct {
	batches [][]*Entry
	err     error
}

func (r *recorder) callback(entries []*Entry, _ *Observer) error {
	r.batches = append(r.batches, entries)
	return r.err
}

func newTestObserver(coord Coordinator, cb Callback, init Init) (*Observer, error) {
	if init.Root == nil {
		init.Root = newElement("root")
	}
	return New(cb, func(b *ObserverBuilder) {
		b.WithCoordinator(coord).WithInit(init)
	})
}
