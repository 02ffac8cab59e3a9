package xintersect

import (
	"errors"
	"fmt"
)

var (
	// ErrRange reports a threshold outside [0, 1].
	ErrRange = errors.New("xintersect: threshold values must be between 0.0 and 1.0")
	// ErrSyntax reports root margin text the MarginParser rejected.
	ErrSyntax = errors.New("xintersect: not able to parse root margin")

	ErrNilCallback    = errors.New("xintersect: callback must not be nil")
	ErrNoCoordinator  = errors.New("xintersect: no coordinator configured")
	ErrNoRoot         = errors.New("xintersect: no root element and no document to resolve one")
	ErrNilTarget      = errors.New("xintersect: target must not be nil")
	ErrObserverClosed = errors.New("xintersect: observer is closed")
)

// ConfigError describes a rejected construction option. It unwraps to ErrRange or ErrSyntax.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v (%s=%s)", e.Err, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CallbackError wraps a failure raised by user callback code during Notify.
type CallbackError struct {
	ObserverID string
	Err        error
	// Panic holds the recovered value when the callback panicked.
	Panic any
}

func (e *CallbackError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("xintersect: observer %s callback panicked: %v", e.ObserverID, e.Panic)
	}
	return fmt.Sprintf("xintersect: observer %s callback failed: %v", e.ObserverID, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
