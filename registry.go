package xintersect

import "slices"

// registry is the ordered set of targets an observer tracks. Slots whose target
// was disposed are nulled in place and compacted by the next observe/unobserve
// scan, so indexes held by an in-flight snapshot never shift underneath it.
type registry struct {
	slots []Element
	stale int
	gen   uint64
}

// observe appends t unless it is already tracked. It reports whether t was added.
func (r *registry) observe(t Element) bool {
	for _, s := range r.compact() {
		if s == t {
			return false
		}
	}
	r.slots = append(r.slots, t)
	r.gen++
	return true
}

// unobserve removes t and reports whether it was tracked.
func (r *registry) unobserve(t Element) bool {
	live := r.compact()
	for i, s := range live {
		if s == t {
			r.slots = slices.Delete(live, i, i+1)
			r.gen++
			return true
		}
	}
	return false
}

// release nulls the slot of a target that is going away without compacting.
func (r *registry) release(t Element) bool {
	for i, s := range r.slots {
		if s != nil && s == t {
			r.slots[i] = nil
			r.stale++
			r.gen++
			return true
		}
	}
	return false
}

func (r *registry) contains(t Element) bool {
	for _, s := range r.slots {
		if s != nil && s == t {
			return true
		}
	}
	return false
}

// snapshot returns the live targets in observe order.
func (r *registry) snapshot() []Element {
	out := make([]Element, 0, len(r.slots)-r.stale)
	for _, s := range r.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (r *registry) len() int { return len(r.slots) - r.stale }

// clear empties the registry and returns the live targets it held.
func (r *registry) clear() []Element {
	live := r.snapshot()
	r.slots = nil
	r.stale = 0
	r.gen++
	return live
}

// compact drops nulled slots and returns the resulting slice.
func (r *registry) compact() []Element {
	if r.stale == 0 {
		return r.slots
	}
	live := r.slots[:0]
	for _, s := range r.slots {
		if s != nil {
			live = append(live, s)
		}
	}
	clear(r.slots[len(live):])
	r.slots = live
	r.stale = 0
	r.gen++
	return live
}
