// Package scene is a small geometry engine for driving observers from scripted
// rectangles: elements have bounds, and intersection with an observer's root is
// plain rectangle overlap after applying the root margin.
package scene

import (
	"sync"
	"weak"

	"github.com/trickstertwo/xintersect"
)

// Element is a named rectangle that can be observed or used as a root.
type Element struct {
	name string
	refs xintersect.BackReferences

	mu            sync.Mutex
	bounds        xintersect.Rect
	registrations map[string]*registration // keyed by observer ID
}

// registration is the per-observer crossing state of a target. The observer is
// held weakly; a registration whose observer was reclaimed is pruned.
type registration struct {
	observer               weak.Pointer[xintersect.Observer]
	previousThresholdIndex int
	previousIsIntersecting bool
}

var _ xintersect.Element = (*Element)(nil)

func NewElement(name string, bounds xintersect.Rect) *Element {
	return &Element{
		name:          name,
		bounds:        bounds,
		registrations: make(map[string]*registration),
	}
}

func (e *Element) Name() string           { return e.name }
func (e *Element) String() string         { return e.name }
func (e *Element) IntersectionID() string { return e.name }

func (e *Element) Bounds() xintersect.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bounds
}

func (e *Element) SetBounds(r xintersect.Rect) {
	e.mu.Lock()
	e.bounds = r
	e.mu.Unlock()
}

// Observers returns the observers currently watching the element.
func (e *Element) Observers() []*xintersect.Observer { return e.refs.Observers() }

func (e *Element) RegisterIntersectionObserver(o *xintersect.Observer) {
	if e == nil || o == nil {
		return
	}
	e.refs.Register(o)
	e.mu.Lock()
	e.pruneLocked()
	if _, ok := e.registrations[o.ID()]; !ok {
		e.registrations[o.ID()] = &registration{
			observer:               weak.Make(o),
			previousThresholdIndex: -1,
		}
	}
	e.mu.Unlock()
}

func (e *Element) UnregisterIntersectionObserver(o *xintersect.Observer) {
	if e == nil || o == nil {
		return
	}
	e.refs.Unregister(o)
	e.mu.Lock()
	delete(e.registrations, o.ID())
	e.mu.Unlock()
}

// Registrations returns how many observers hold crossing state on the element,
// after dropping those that were reclaimed.
func (e *Element) Registrations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pruneLocked()
	return len(e.registrations)
}

func (e *Element) pruneLocked() {
	for id, reg := range e.registrations {
		if reg.observer.Value() == nil {
			delete(e.registrations, id)
		}
	}
}

// Dispose removes the element: every observer watching it releases its slot.
func (e *Element) Dispose() {
	if e == nil {
		return
	}
	e.refs.Dispose(e)
	e.mu.Lock()
	clear(e.registrations)
	e.mu.Unlock()
}

// ComputeIntersection produces an entry when the target moved to a different
// threshold band or its intersecting state flipped since the previous call.
func (e *Element) ComputeIntersection(o *xintersect.Observer) *xintersect.Entry {
	if e == nil {
		return nil
	}
	bounder, ok := o.Root().(interface{ Bounds() xintersect.Rect })
	if !ok {
		return nil
	}
	rootBounds := o.Margin().Apply(bounder.Bounds())
	target := e.Bounds()

	inter, isIntersecting := Intersect(target, rootBounds)
	ratio := 0.0
	if isIntersecting {
		if area := target.Width * target.Height; area > 0 {
			ratio = inter.Width * inter.Height / area
		} else {
			ratio = 1
		}
	}

	thresholdIndex := 0
	if isIntersecting {
		thresholdIndex = o.ThresholdSet().Index(ratio)
	}

	e.mu.Lock()
	e.pruneLocked()
	reg, ok := e.registrations[o.ID()]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	changed := thresholdIndex != reg.previousThresholdIndex || isIntersecting != reg.previousIsIntersecting
	reg.previousThresholdIndex = thresholdIndex
	reg.previousIsIntersecting = isIntersecting
	e.mu.Unlock()

	if !changed {
		return nil
	}
	return &xintersect.Entry{
		Target:             e,
		RootBounds:         rootBounds,
		BoundingClientRect: target,
		IntersectionRect:   inter,
		IsIntersecting:     isIntersecting,
		IntersectionRatio:  ratio,
	}
}

// Intersect returns the overlap of a and b. Edge-adjacent rectangles intersect
// with an empty overlap.
func Intersect(a, b xintersect.Rect) (xintersect.Rect, bool) {
	left := max(a.X, b.X)
	top := max(a.Y, b.Y)
	right := min(a.X+a.Width, b.X+b.Width)
	bottom := min(a.Y+a.Height, b.Y+b.Height)
	if right < left || bottom < top {
		return xintersect.Rect{}, false
	}
	return xintersect.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}
