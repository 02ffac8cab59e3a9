package xintersect

import (
	"fmt"
	"strconv"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// RecoveryMiddleware converts a panicking callback into a *CallbackError.
func RecoveryMiddleware() Middleware {
	return func(next Callback) Callback {
		return func(entries []*Entry, o *Observer) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &CallbackError{
						ObserverID: o.ID(),
						Err:        fmt.Errorf("panic recovered: %v", r),
						Panic:      r,
					}
				}
			}()
			return next(entries, o)
		}
	}
}

// LoggingMiddleware logs every delivered batch.
func LoggingMiddleware(l *xlog.Logger, clock xclock.Clock) Middleware {
	if clock == nil {
		clock = xclock.Default()
	}
	return func(next Callback) Callback {
		return func(entries []*Entry, o *Observer) error {
			start := clock.Now()
			err := next(entries, o)
			ev := l.Debug()
			if err != nil {
				ev = l.Warn().Err(err)
			}
			ev.Str("observer_id", o.ID()).
				Str("entries", strconv.Itoa(len(entries))).
				Dur("dur", clock.Since(start)).
				Msg("xintersect: callback done")
			return err
		}
	}
}

// FilterMiddleware drops entries keep rejects. A batch filtered down to nothing
// does not reach the callback.
func FilterMiddleware(keep func(e *Entry) bool) Middleware {
	return func(next Callback) Callback {
		return func(entries []*Entry, o *Observer) error {
			kept := make([]*Entry, 0, len(entries))
			for _, e := range entries {
				if keep(e) {
					kept = append(kept, e)
				}
			}
			if len(kept) == 0 {
				return nil
			}
			return next(kept, o)
		}
	}
}

// Chain composes middlewares around a callback in order.
func Chain(cb Callback, mws ...Middleware) Callback {
	wrapped := cb
	// Apply in reverse so that first middleware wraps last.
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}
	return wrapped
}
