package xintersect

import "time"

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Entry is one crossing event for one target, queued for delivery.
// The geometry fields are produced by the Element and carried unchanged.
type Entry struct {
	// Time is stamped from the observer's clock when the producer leaves it zero.
	Time   time.Time
	Target Element

	RootBounds         Rect
	BoundingClientRect Rect
	IntersectionRect   Rect
	IsIntersecting     bool
	IntersectionRatio  float64
}
