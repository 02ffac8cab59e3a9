package xintersect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trickstertwo/xlog"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Callback) Callback {
			return func(entries []*Entry, o *Observer) error {
				trace = append(trace, name)
				return next(entries, o)
			}
		}
	}
	cb := Chain(func([]*Entry, *Observer) error {
		trace = append(trace, "cb")
		return nil
	}, mw("first"), nil, mw("second"))

	require.NoError(t, cb(nil, nil))
	assert.Equal(t, []string{"first", "second", "cb"}, trace)
}

// TestFilterMiddleware tests that rejected entries never reach the callback.
func TestFilterMiddleware(t *testing.T) {
	rec := &recorder{}
	o, err := New(rec.callback, func(b *ObserverBuilder) {
		b.WithCoordinator(&fakeCoordinator{}).
			WithRoot(newElement("root")).
			WithMiddleware(FilterMiddleware(func(e *Entry) bool { return e.IsIntersecting }))
	})
	require.NoError(t, err)
	defer o.Close()

	in := newElement("in").alwaysCrossing(1)
	out := newElement("out").alwaysCrossing(0)
	o.Observe(in)
	o.Observe(out)
	o.UpdateObservationTargets()
	require.NoError(t, o.Notify())
	require.Len(t, rec.batches, 1)
	require.Len(t, rec.batches[0], 1)
	assert.Same(t, in, rec.batches[0][0].Target.(*fakeElement))

	o.Unobserve(in)
	o.UpdateObservationTargets()
	require.NoError(t, o.Notify())
	assert.Len(t, rec.batches, 1, "fully filtered batch is swallowed")
}

func TestLoggingMiddleware_PassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{err: boom}
	o, err := New(rec.callback, func(b *ObserverBuilder) {
		b.WithCoordinator(&fakeCoordinator{}).
			WithRoot(newElement("root")).
			WithMiddleware(LoggingMiddleware(xlog.Default(), nil)).
			WithErrorReporter(func(error) {})
	})
	require.NoError(t, err)
	defer o.Close()

	o.QueueEntry(&Entry{Target: newElement("a")})
	assert.ErrorIs(t, o.Notify(), boom)
	assert.Len(t, rec.batches, 1)
}
