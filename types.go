package xintersect

import "sync/atomic"

// Stats is a snapshot of an observer's counters.
type Stats struct {
	Observed        int
	Pending         int
	Queued          uint64
	Delivered       uint64
	Batches         uint64
	Taken           uint64
	CallbackErrors  uint64
	DroppedOnClose  uint64
	DeliveryRequest uint64
}

type observerMetrics struct {
	queued         atomic.Uint64
	delivered      atomic.Uint64
	batches        atomic.Uint64
	taken          atomic.Uint64
	callbackErrors atomic.Uint64
	dropped        atomic.Uint64
	requests       atomic.Uint64
}
