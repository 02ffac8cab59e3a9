package xintersect

import (
	"sync"
	"weak"
)

// BackReferences is the observer list an Element keeps. It holds observers
// weakly: an observer dropped without Close is still reclaimed, and its cleared
// slot is pruned the next time the list is read or changed.
//
// The zero value is ready to use.
type BackReferences struct {
	mu    sync.Mutex
	slots []weak.Pointer[Observer]
}

// Register adds o unless it is already present.
func (b *BackReferences) Register(o *Observer) {
	if o == nil {
		return
	}
	wp := weak.Make(o)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune()
	for _, s := range b.slots {
		if s == wp {
			return
		}
	}
	b.slots = append(b.slots, wp)
}

// Unregister removes o.
func (b *BackReferences) Unregister(o *Observer) {
	if o == nil {
		return
	}
	wp := weak.Make(o)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune()
	for i, s := range b.slots {
		if s == wp {
			b.slots = append(b.slots[:i], b.slots[i+1:]...)
			return
		}
	}
}

// Observers returns the live observers in registration order.
func (b *BackReferences) Observers() []*Observer {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune()
	out := make([]*Observer, 0, len(b.slots))
	for _, s := range b.slots {
		if o := s.Value(); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of registered observers still alive.
func (b *BackReferences) Len() int {
	return len(b.Observers())
}

// Dispose tells every live observer that target is going away and empties the list.
func (b *BackReferences) Dispose(target Element) {
	observers := b.Observers()
	b.mu.Lock()
	b.slots = nil
	b.mu.Unlock()
	for _, o := range observers {
		o.TargetDisposed(target)
	}
}

func (b *BackReferences) prune() {
	live := b.slots[:0]
	for _, s := range b.slots {
		if s.Value() != nil {
			live = append(live, s)
		}
	}
	clear(b.slots[len(live):])
	b.slots = live
}
