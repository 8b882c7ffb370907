package core

import (
	"log/slog"
	"slices"
)

// Observer is notified about node lifecycle events of a Context.
type Observer interface {
	// NodeCreated is called once a node is fully constructed and owned.
	NodeCreated(n *Node)
	// NodeBound is called after a node is bound to a presentation element.
	NodeBound(n *Node)
	// NodeDestroyed is called while a node is being destroyed, after its
	// children are gone.
	NodeDestroyed(n *Node)
}

// ObserverFuncs adapts optional callbacks to Observer.
type ObserverFuncs struct {
	Created   func(n *Node)
	Bound     func(n *Node)
	Destroyed func(n *Node)
}

func (o ObserverFuncs) NodeCreated(n *Node) {
	if o.Created != nil {
		o.Created(n)
	}
}

func (o ObserverFuncs) NodeBound(n *Node) {
	if o.Bound != nil {
		o.Bound(n)
	}
}

func (o ObserverFuncs) NodeDestroyed(n *Node) {
	if o.Destroyed != nil {
		o.Destroyed(n)
	}
}

// Context is shared by every node of one tree. It carries the logger and the
// lifecycle observers used by focus and dispatch.
type Context struct {
	logger    *slog.Logger
	observers []*observerEntry
	live      int
}

type observerEntry struct {
	o      Observer
	active bool
}

// NewContext returns a context logging to logger. Nil uses slog.Default().
func NewContext(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{logger: logger}
}

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// LiveNodes returns the number of nodes created and not yet destroyed.
func (c *Context) LiveNodes() int {
	return c.live
}

// AddObserver registers o and returns a function that removes it.
func (c *Context) AddObserver(o Observer) func() {
	e := &observerEntry{o: o, active: true}
	c.observers = append(c.observers, e)
	return func() {
		if !e.active {
			return
		}
		e.active = false
		c.observers = slices.DeleteFunc(slices.Clone(c.observers), func(x *observerEntry) bool { return x == e })
	}
}

func (c *Context) each(fn func(Observer)) {
	for _, e := range c.observers {
		if e.active {
			fn(e.o)
		}
	}
}

func (c *Context) created(n *Node) {
	c.live++
	c.logger.Debug("node created", slog.String("node", n.String()))
	c.each(func(o Observer) { o.NodeCreated(n) })
}

func (c *Context) bound(n *Node) {
	c.each(func(o Observer) { o.NodeBound(n) })
}

func (c *Context) destroyed(n *Node) {
	c.live--
	c.logger.Debug("node destroyed", slog.String("node", n.String()))
	c.each(func(o Observer) { o.NodeDestroyed(n) })
}
