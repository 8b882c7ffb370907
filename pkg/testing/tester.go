package testing

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/dispatch"
	"github.com/go-drift/plane/pkg/focus"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/reactive"
	"github.com/go-drift/plane/pkg/selection"
	"github.com/go-drift/plane/pkg/txn"
)

const (
	// DefaultTestWidth is the default width of the root node.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default height of the root node.
	DefaultTestHeight = 600
)

// Box is a presentation element with a fixed rect.
type Box graphics.Rect

// Bounds implements core.Element.
func (b Box) Bounds() graphics.Rect { return graphics.Rect(b) }

// Plane is a domain object for pannable nodes. Embed it or use it as the
// node's self value.
type Plane struct {
	transform *reactive.Cell[graphics.Transform]
}

// NewPlane returns a plane at the identity transform.
func NewPlane() *Plane {
	return &Plane{transform: reactive.New(graphics.Identity())}
}

// Transform returns the pan and zoom of the plane.
func (p *Plane) Transform() *reactive.Cell[graphics.Transform] {
	return p.transform
}

// Tester wires a root node to the focus, selection and dispatch machinery
// with a fake clock, an in-memory journal and a private metrics registry.
type Tester struct {
	t testing.TB

	Root      *core.Node
	Context   *core.Context
	Focus     *focus.State
	Selection *selection.State
	Nav       *dispatch.Navigator
	Clock     *FakeClock
	Journal   *txn.Memory
	Registry  *prometheus.Registry
	// Logs collects everything logged through the tree context.
	Logs *bytes.Buffer
}

// Option configures a Tester.
type Option func(*options)

type options struct {
	platform input.Platform
	size     graphics.Size
	level    slog.Level
}

// WithPlatform selects the key mapping. The default is input.PlatformOther.
func WithPlatform(p input.Platform) Option {
	return func(o *options) { o.platform = p }
}

// WithSize sets the root rect.
func WithSize(width, height float64) Option {
	return func(o *options) { o.size = graphics.Size{Width: width, Height: height} }
}

// WithLogLevel sets the level captured in Logs and used for dispatch traces.
func WithLogLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// New builds a tester whose tree is destroyed when the test ends.
func New(t testing.TB, opts ...Option) *Tester {
	t.Helper()
	o := options{
		size:  graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
		level: slog.LevelInfo,
	}
	for _, fn := range opts {
		fn(&o)
	}

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: o.level}))
	ctx := core.NewContext(logger)
	root := core.NewRoot(ctx, nil, core.Config{Label: "root", Focusable: true})
	root.Bind(Box(graphics.RectFromLTWH(0, 0, o.size.Width, o.size.Height)))

	clock := NewFakeClock()
	reg := prometheus.NewRegistry()
	fs := focus.New(root)
	nav := dispatch.New(dispatch.Options{
		Root:       root,
		Focus:      fs,
		Logger:     logger,
		Registerer: reg,
		Keymap:     input.NewKeymap(o.platform),
		Clock:      clock,
		TraceLevel: slog.LevelDebug,
	})
	tester := &Tester{
		t:         t,
		Root:      root,
		Context:   ctx,
		Focus:     fs,
		Selection: selection.New(),
		Nav:       nav,
		Clock:     clock,
		Journal:   txn.NewMemory(logger),
		Registry:  reg,
		Logs:      logs,
	}
	tester.Journal.Now = clock.Now
	t.Cleanup(root.Destroy)
	return tester
}

// Add creates a node under parent, owned by parent under label, and binds it
// to a Box at r.
func (t *Tester) Add(parent *core.Node, label string, r graphics.Rect, cfg core.Config) *core.Node {
	return t.AddWith(parent, nil, label, r, cfg)
}

// AddWith is Add with a domain object for the node's self value.
func (t *Tester) AddWith(parent *core.Node, self any, label string, r graphics.Rect, cfg core.Config) *core.Node {
	if cfg.Label == "" {
		cfg.Label = label
	}
	n := core.NewNode(parent, self, cfg)
	core.Adopt(parent, label, n)
	n.Bind(Box(r))
	return n
}

// Remove releases the edge parent holds on n under label.
func (t *Tester) Remove(parent *core.Node, label string, n *core.Node) {
	core.Release(parent, label, n)
}

// AssertNoOverrides fails the test if any global override is still held.
func (t *Tester) AssertNoOverrides() {
	t.t.Helper()
	if held := t.Nav.Overrides(); len(held) > 0 {
		names := make([]string, len(held))
		for i, k := range held {
			b, _ := t.Nav.Override(k)
			names[i] = k.String() + "=" + core.BehaviorName(b)
		}
		t.t.Errorf("global overrides still held: %v", names)
	}
}

// LastRecord returns the most recent dispatch record.
func (t *Tester) LastRecord() dispatch.Record {
	t.t.Helper()
	rec, ok := t.Nav.TraceLog().Last()
	if !ok {
		t.t.Fatal("no event has been dispatched")
	}
	return rec
}
