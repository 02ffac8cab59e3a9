package xintersect

// entryQueue buffers entries awaiting delivery in arrival order.
type entryQueue struct {
	entries []*Entry
}

func (q *entryQueue) push(e *Entry) int {
	q.entries = append(q.entries, e)
	return len(q.entries)
}

// take swaps the buffer for an empty one and returns what was queued.
func (q *entryQueue) take() []*Entry {
	out := q.entries
	q.entries = nil
	return out
}

func (q *entryQueue) clear() int {
	n := len(q.entries)
	q.entries = nil
	return n
}

func (q *entryQueue) len() int { return len(q.entries) }
