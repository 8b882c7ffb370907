package behaviors

import (
	"context"
	"strings"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/selection"
	"github.com/go-drift/plane/pkg/txn"
)

// MIMEText is the clipboard payload key for plain text.
const MIMEText = "text/plain"

// Clipboard copies, cuts and pastes the selection. Cut and paste run inside
// one transaction each.
type Clipboard struct {
	*core.HandlerTable
	// Format renders one node as clipboard text. Nil uses the node label.
	Format func(n *core.Node) string
	// Remove deletes a cut node. Nil makes cut behave like copy.
	Remove func(tx txn.Tx, n *core.Node) error
	// Insert creates content from pasted text at the focused node. Nil
	// declines pastes.
	Insert func(tx txn.Tx, at *core.Node, text string) error

	tx  txn.Transactor
	sel *selection.State
}

// NewClipboard returns a clipboard behavior.
func NewClipboard(tx txn.Transactor, sel *selection.State) *Clipboard {
	b := &Clipboard{tx: tx, sel: sel}
	b.HandlerTable = core.NewHandlerTable("Clipboard", map[input.Kind]core.HandlerFunc{
		input.Copy:  b.copy,
		input.Cut:   b.cut,
		input.Paste: b.paste,
	})
	return b
}

func (b *Clipboard) text(nodes []*core.Node) string {
	lines := make([]string, len(nodes))
	for i, n := range nodes {
		if b.Format != nil {
			lines[i] = b.Format(n)
		} else {
			lines[i] = n.Label()
		}
	}
	return strings.Join(lines, "\n")
}

func (b *Clipboard) copy(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	nodes := b.sel.Nodes.Value()
	if len(nodes) == 0 {
		return core.Decline
	}
	if ev.Data == nil {
		ev.Data = map[string]string{}
	}
	ev.Data[MIMEText] = b.text(nodes)
	return core.Stop
}

func (b *Clipboard) cut(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	if st := b.copy(d, ev, origin); st != core.Stop {
		return st
	}
	if b.Remove == nil || b.tx == nil {
		return core.Stop
	}
	nodes := b.sel.Nodes.Value()
	err := b.tx.WithTransaction(context.Background(), func(tx txn.Tx) error {
		for _, n := range nodes {
			tx.Record(txn.Entry{Op: "remove", Target: n.Key()})
			if err := b.Remove(tx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		origin.Context().Logger().Warn("cut failed", "nodes", len(nodes), "err", err)
		return core.Stop
	}
	b.sel.Clear()
	return core.Stop
}

func (b *Clipboard) paste(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	text := ev.Data[MIMEText]
	if text == "" {
		text = ev.Text
	}
	if text == "" || b.Insert == nil || b.tx == nil {
		return core.Decline
	}
	err := b.tx.WithTransaction(context.Background(), func(tx txn.Tx) error {
		tx.Record(txn.Entry{Op: "paste", Target: origin.Key(), Value: text})
		return b.Insert(tx, origin, text)
	})
	if err != nil {
		origin.Context().Logger().Warn("paste failed", "node", origin.String(), "err", err)
	}
	return core.Stop
}
