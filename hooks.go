package xintersect

import (
	"time"

	"github.com/trickstertwo/xlog"
)

// EventType enumerates observer lifecycle events.
type EventType string

const (
	EventCreated        EventType = "created"
	EventObserve        EventType = "observe"
	EventUnobserve      EventType = "unobserve"
	EventQueued         EventType = "queued"
	EventDelivered      EventType = "delivered"
	EventCallbackFailed EventType = "callback_failed"
	EventDisconnected   EventType = "disconnected"
	EventDestroyed      EventType = "destroyed"
	EventPrecondition   EventType = "precondition"
)

// Event carries lifecycle telemetry for hooks.
type Event struct {
	Type       EventType
	ObserverID string
	Document   string
	// Entries is the batch size for EventDelivered/EventCallbackFailed and the
	// queue length after EventQueued.
	Entries  int
	Duration time.Duration
	Err      error
}

// HookFunc lets a plain function satisfy Hook.
type HookFunc func(e Event)

func (f HookFunc) OnEvent(e Event) { f(e) }

// LoggingHook emits lifecycle events via xlog.
type LoggingHook struct {
	Logger *xlog.Logger
}

func (h LoggingHook) OnEvent(e Event) {
	if h.Logger == nil {
		return
	}
	l := h.Logger.With(
		xlog.Str("type", string(e.Type)),
		xlog.Str("observer_id", e.ObserverID),
		xlog.Str("document", e.Document),
	)
	switch e.Type {
	case EventCallbackFailed, EventPrecondition:
		l.Warn().Err(e.Err).Msg("xintersect event")
	default:
		if e.Duration > 0 {
			l = l.With(xlog.Dur("duration", e.Duration))
		}
		l.Debug().Msg("xintersect event")
	}
}
