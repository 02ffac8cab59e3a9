// Package xintersect lets callers watch how tracked elements overlap a root
// element and get batched, asynchronous notifications when configured ratio
// thresholds are crossed.
//
// An Observer owns the tracked targets and a FIFO of pending entries. The
// geometry engine produces entries (Element.ComputeIntersection, driven by
// Observer.UpdateObservationTargets or pushed with QueueEntry). The document's
// Coordinator coalesces delivery requests from every observer into one pass that
// calls Notify, which drains the queue and invokes the callback once per batch.
//
// Example:
//
//	coord := memory.New(memory.Config{Document: "main"})
//	obs, err := xintersect.New(func(entries []*xintersect.Entry, o *xintersect.Observer) error {
//	    for _, e := range entries {
//	        fmt.Println(e.IntersectionRatio)
//	    }
//	    return nil
//	}, func(b *xintersect.ObserverBuilder) {
//	    b.WithCoordinator(coord).
//	        WithRoot(viewport).
//	        WithRootMargin("10px").
//	        WithThreshold(xintersect.List(0, 0.5, 1))
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Close()
//	obs.Observe(card)
//	coord.Tick()
package xintersect
