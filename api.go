package xintersect

// Element is the capability an observed target exposes to the core.
// Implementations must be comparable (pointer types in practice): targets are
// matched by identity. The core only detects a nil interface; a nil pointer
// wrapped in an Element is passed through, so pointer implementations should
// treat a nil receiver as a no-op.
type Element interface {
	// RegisterIntersectionObserver records a back-reference to o. Implementations
	// must not keep o alive; see BackReferences.
	RegisterIntersectionObserver(o *Observer)
	// UnregisterIntersectionObserver drops the back-reference to o.
	UnregisterIntersectionObserver(o *Observer)
	// ComputeIntersection recomputes the target's intersection with o's root and
	// returns an entry when a threshold was crossed, nil otherwise.
	ComputeIntersection(o *Observer) *Entry
}

// Document resolves the implicit root for observers built without one.
type Document interface {
	DefaultRootElement() Element
}

// MarginParser turns root margin text into a normalized Margin.
// Errors should wrap ErrSyntax.
type MarginParser interface {
	ParseMargin(text string) (Margin, error)
}

// Coordinator is the per-document scheduler that batches delivery passes.
// A pass calls Notify on every observer with pending work; observers with an
// empty queue may be skipped.
type Coordinator interface {
	OnObserverCreated(o *Observer)
	OnObserverDestroyed(o *Observer)
	// RequestDeliveryPass is idempotent until the next pass runs.
	RequestDeliveryPass(o *Observer)
}

// Callback receives a drained batch. A returned error is reported, never retried.
type Callback func(entries []*Entry, o *Observer) error

// Middleware composes concerns around a Callback.
type Middleware func(next Callback) Callback

// Hook receives observer lifecycle events. Implementations must not block.
type Hook interface {
	OnEvent(e Event)
}

// ErrorReporter is the host error-reporting channel for callback failures.
type ErrorReporter func(err error)
