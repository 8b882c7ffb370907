package dispatch

import (
	"cmp"
	"log/slog"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/focus"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/lifecycle"
)

// Defaults for Options fields left zero.
const (
	DefaultClickInterval = 500 * time.Millisecond
	DefaultClickDistance = 4.0
	DefaultWheelWindow   = time.Second
)

// Options configures a Navigator.
type Options struct {
	// Root is the tree the navigator serves. Required.
	Root *core.Node
	// Focus is the focus state used as origin for keyboard events. When nil
	// a new state is created for Root.
	Focus *focus.State
	// Logger receives the dispatch trace. Defaults to the root context's
	// logger.
	Logger *slog.Logger
	// Registerer receives the dispatch metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// Keymap maps platform shortcuts. Defaults to the host platform.
	Keymap *input.Keymap

	ClickInterval time.Duration
	ClickDistance float64
	WheelWindow   time.Duration

	// TraceLevel is the level dispatch records are logged at.
	TraceLevel slog.Level
	// TracePattern limits logged records to those whose kind or origin
	// label matches.
	TracePattern *regexp.Regexp
	// TraceCapacity sizes the in-memory trace log.
	TraceCapacity int

	Clock Clock
}

type override struct {
	behavior core.Behavior
	active   lifecycle.Weak[*core.Node]
}

// Navigator is the dispatch engine of one tree. It is not safe for
// concurrent use; hosts feed it from a single event loop.
type Navigator struct {
	root    *core.Node
	focus   *focus.State
	logger  *slog.Logger
	keymap  *input.Keymap
	clock   Clock
	metrics *metrics
	trace   *TraceLog

	traceLevel   slog.Level
	tracePattern *regexp.Regexp

	down    *input.DownKeys
	clicks  *input.ClickTracker
	wheel   *input.WheelClassifier
	hovered lifecycle.Weak[*core.Node]

	overrides   map[input.Kind]*override
	dispatching bool
	deferred    []func()
	closed      bool
	detach      func()
}

// New returns a navigator for opts.Root.
func New(opts Options) *Navigator {
	if opts.Root == nil {
		panic("dispatch: Options.Root is required")
	}
	n := &Navigator{
		root:         opts.Root,
		focus:        opts.Focus,
		logger:       opts.Logger,
		keymap:       opts.Keymap,
		clock:        opts.Clock,
		metrics:      newMetrics(opts.Registerer),
		trace:        NewTraceLog(opts.TraceCapacity),
		traceLevel:   opts.TraceLevel,
		tracePattern: opts.TracePattern,
		down:         input.NewDownKeys(),
		overrides:    map[input.Kind]*override{},
	}
	if n.focus == nil {
		n.focus = focus.New(opts.Root)
	}
	if n.logger == nil {
		n.logger = opts.Root.Context().Logger()
	}
	if n.keymap == nil {
		n.keymap = input.NewKeymap(input.HostPlatform())
	}
	if n.clock == nil {
		n.clock = realClock{}
	}
	interval := opts.ClickInterval
	if interval <= 0 {
		interval = DefaultClickInterval
	}
	distance := opts.ClickDistance
	if distance <= 0 {
		distance = DefaultClickDistance
	}
	window := opts.WheelWindow
	if window <= 0 {
		window = DefaultWheelWindow
	}
	n.clicks = input.NewClickTracker(interval, distance)
	n.wheel = input.NewWheelClassifier(window)
	n.detach = opts.Root.Context().AddObserver(core.ObserverFuncs{
		Destroyed: n.nodeDestroyed,
	})
	opts.Root.OnCleanup(n.Close)
	return n
}

// Close stops the navigator. Later events are ignored.
func (n *Navigator) Close() {
	if n.closed {
		return
	}
	n.closed = true
	n.detach()
	clear(n.overrides)
	n.metrics.overrides.Set(0)
	n.deferred = nil
}

// Reconfigure applies the tuning fields of opts to a running navigator: the
// keymap, click and wheel thresholds, and the trace filter. Zero values
// restore the defaults. Root, Focus, Logger, Registerer and Clock are
// ignored.
func (n *Navigator) Reconfigure(opts Options) {
	if opts.Keymap != nil {
		n.keymap = opts.Keymap
	}
	n.clicks.MaxInterval = cmp.Or(opts.ClickInterval, DefaultClickInterval)
	n.clicks.MaxDistance = cmp.Or(opts.ClickDistance, DefaultClickDistance)
	n.wheel.Window = cmp.Or(opts.WheelWindow, DefaultWheelWindow)
	n.traceLevel = opts.TraceLevel
	n.tracePattern = opts.TracePattern
	n.logger.Debug("navigator reconfigured",
		"click_interval", n.clicks.MaxInterval,
		"wheel_window", n.wheel.Window,
		"trace_level", n.traceLevel)
}

// Root returns the tree root.
func (n *Navigator) Root() *core.Node {
	return n.root
}

// Focus returns the focus state.
func (n *Navigator) Focus() *focus.State {
	return n.focus
}

// DownKeys implements core.Dispatcher.
func (n *Navigator) DownKeys() *input.DownKeys {
	return n.down
}

// Keymap implements core.Dispatcher.
func (n *Navigator) Keymap() *input.Keymap {
	return n.keymap
}

// TraceLog returns the in-memory dispatch trace.
func (n *Navigator) TraceLog() *TraceLog {
	return n.trace
}

// Hovered returns the node under the pointer, if any.
func (n *Navigator) Hovered() *core.Node {
	return n.hovered.Get()
}

// Defer implements core.Dispatcher. Outside a dispatch fn runs immediately.
func (n *Navigator) Defer(fn func()) {
	if fn == nil {
		return
	}
	if !n.dispatching {
		fn()
		return
	}
	n.deferred = append(n.deferred, fn)
}

// nodeDestroyed releases overrides bound to a dying node and forgets hover.
func (n *Navigator) nodeDestroyed(node *core.Node) {
	for kind, o := range n.overrides {
		if o.active.Is(node) {
			n.logger.Debug("override released by node teardown",
				"behavior", core.BehaviorName(o.behavior), "kind", kind.String(), "node", node.String())
			delete(n.overrides, kind)
		}
	}
	n.metrics.overrides.Set(float64(len(n.overrides)))
	if n.hovered.Is(node) {
		n.hovered.Clear()
	}
}
