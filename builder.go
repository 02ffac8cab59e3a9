package xintersect

import (
	"errors"

	"github.com/google/uuid"
	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Init holds the per-observer options: the root, the root margin text and the thresholds.
type Init struct {
	// Root is the element targets are intersected with. When nil the document's
	// default root element is used.
	Root       Element
	RootMargin string
	Threshold  ThresholdInput
}

// ObserverBuilder constructs Observers (Builder pattern).
type ObserverBuilder struct {
	coordinator  Coordinator
	document     Document
	documentName string
	init         Init
	parser       MarginParser

	middlewares []Middleware
	hooks       []Hook
	logger      *xlog.Logger
	clock       xclock.Clock
	reporter    ErrorReporter
}

// NewObserverBuilder returns a builder with the default margin parser.
func NewObserverBuilder() *ObserverBuilder {
	return &ObserverBuilder{parser: CSSMarginParser{}}
}

// WithCoordinator sets the document's coordinator. Required.
func (ob *ObserverBuilder) WithCoordinator(c Coordinator) *ObserverBuilder {
	ob.coordinator = c
	return ob
}

// WithDocument sets the document used to resolve the implicit root and its label for logs.
func (ob *ObserverBuilder) WithDocument(name string, d Document) *ObserverBuilder {
	ob.documentName = name
	ob.document = d
	return ob
}

func (ob *ObserverBuilder) WithInit(init Init) *ObserverBuilder {
	ob.init = init
	return ob
}

func (ob *ObserverBuilder) WithRoot(root Element) *ObserverBuilder {
	ob.init.Root = root
	return ob
}

func (ob *ObserverBuilder) WithRootMargin(text string) *ObserverBuilder {
	ob.init.RootMargin = text
	return ob
}

func (ob *ObserverBuilder) WithThreshold(t ThresholdInput) *ObserverBuilder {
	ob.init.Threshold = t
	return ob
}

// WithMarginParser replaces the default CSSMarginParser.
func (ob *ObserverBuilder) WithMarginParser(p MarginParser) *ObserverBuilder {
	if p != nil {
		ob.parser = p
	}
	return ob
}

func (ob *ObserverBuilder) WithMiddleware(mw ...Middleware) *ObserverBuilder {
	ob.middlewares = append(ob.middlewares, mw...)
	return ob
}

func (ob *ObserverBuilder) WithHook(h ...Hook) *ObserverBuilder {
	for _, x := range h {
		if x != nil {
			ob.hooks = append(ob.hooks, x)
		}
	}
	return ob
}

func (ob *ObserverBuilder) WithLogger(l *xlog.Logger) *ObserverBuilder {
	ob.logger = l
	return ob
}

func (ob *ObserverBuilder) WithClock(c xclock.Clock) *ObserverBuilder {
	ob.clock = c
	return ob
}

// WithErrorReporter sets the channel callback failures are reported on.
// The default logs them at warn level.
func (ob *ObserverBuilder) WithErrorReporter(r ErrorReporter) *ObserverBuilder {
	ob.reporter = r
	return ob
}

// Build validates the configuration and registers the observer with the
// coordinator. Validation runs root, then margin, then thresholds; any failure
// returns before the coordinator learns about the observer.
func (ob *ObserverBuilder) Build(cb Callback) (*Observer, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	if ob.coordinator == nil {
		return nil, ErrNoCoordinator
	}

	root := ob.init.Root
	if root == nil && ob.document != nil {
		root = ob.document.DefaultRootElement()
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	margin, err := ob.parser.ParseMargin(ob.init.RootMargin)
	if err != nil {
		if !errors.Is(err, ErrSyntax) {
			err = &ConfigError{Field: "root_margin", Value: ob.init.RootMargin, Err: errors.Join(ErrSyntax, err)}
		}
		return nil, err
	}

	thresholds, err := NewThresholdSet(ob.init.Threshold...)
	if err != nil {
		return nil, err
	}

	clk := ob.clock
	if clk == nil {
		clk = xclock.Default()
	}
	lg := ob.logger
	if lg == nil {
		lg = xlog.Default()
	}
	id := uuid.Must(uuid.NewV7()).String()

	o := &Observer{
		id:          id,
		document:    ob.documentName,
		root:        root,
		margin:      margin,
		thresholds:  thresholds,
		coordinator: ob.coordinator,
		clock:       clk,
		logger:      lg,
	}

	o.report = ob.reporter
	if o.report == nil {
		o.report = func(err error) {
			lg.Warn().Err(err).Str("observer_id", id).Msg("xintersect: callback failed")
		}
	}

	// Recovery wraps everything so panics in middleware are contained too.
	mws := append([]Middleware{RecoveryMiddleware()}, ob.middlewares...)
	o.callback = Chain(cb, mws...)

	hasLoggingHook := false
	for _, h := range ob.hooks {
		if _, ok := h.(LoggingHook); ok {
			hasLoggingHook = true
			break
		}
	}
	if !hasLoggingHook {
		o.hooks = append(o.hooks, LoggingHook{Logger: lg})
	}
	o.hooks = append(o.hooks, ob.hooks...)

	ob.coordinator.OnObserverCreated(o)
	o.emit(Event{Type: EventCreated})
	return o, nil
}

// New constructs an Observer via the builder.
func New(cb Callback, init func(b *ObserverBuilder)) (*Observer, error) {
	b := NewObserverBuilder()
	if init != nil {
		init(b)
	}
	return b.Build(cb)
}
