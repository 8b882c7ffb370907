// Package demo builds the sticky-note board shown by `plane demo`: a
// pannable board of cards wired to every stock behavior.
package demo

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/plane/pkg/behaviors"
	"github.com/go-drift/plane/pkg/config"
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/dispatch"
	"github.com/go-drift/plane/pkg/focus"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/reactive"
	"github.com/go-drift/plane/pkg/selection"
	"github.com/go-drift/plane/pkg/txn"
)

// Default card size in plane units.
const (
	CardWidth  = 120
	CardHeight = 64
)

// Note is the data behind one card. At is in board coordinates.
type Note struct {
	ID    string
	Title string
	At    graphics.Rect
}

// Card is the node of one note.
type Card struct {
	*core.Node
	Note *Note
}

// Board is the pannable surface holding the cards.
type Board struct {
	*core.Node
	// Notes drives the cards: adding a note creates its card and removing it
	// destroys the card.
	Notes     *reactive.CellList[*Note]
	cards     *core.List[*Note, *Card]
	transform *reactive.Cell[graphics.Transform]
}

// Transform is the pan and zoom of the board.
func (b *Board) Transform() *reactive.Cell[graphics.Transform] {
	return b.transform
}

// Cards returns the live cards in note order.
func (b *Board) Cards() []*Card {
	return b.cards.Items()
}

// cardElement places a note on screen through the board transform.
type cardElement struct {
	board *Board
	note  *Note
}

func (e cardElement) Bounds() graphics.Rect {
	return e.board.transform.Value().ApplyRect(e.note.At)
}

// viewport is the screen-sized element of the root and the board.
type viewport struct {
	size graphics.Size
}

func (v *viewport) Bounds() graphics.Rect {
	return graphics.RectFromLTWH(0, 0, v.size.Width, v.size.Height)
}

// Options configures New.
type Options struct {
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	Config     *config.Config
	Size       graphics.Size
	Clock      dispatch.Clock
}

// Scene is the assembled demo: the tree, its state and its navigator.
type Scene struct {
	Root      *core.Node
	Board     *Board
	Focus     *focus.State
	Selection *selection.State
	Nav       *dispatch.Navigator
	Journal   *txn.Memory
	Pan       *behaviors.Pan

	logger   *slog.Logger
	viewport *viewport
}

// New builds the demo scene with a few starter notes.
func New(opts Options) (*Scene, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scene{
		logger:   logger,
		viewport: &viewport{size: opts.Size},
		Journal:  txn.NewMemory(logger),
	}
	s.Root = core.NewRoot(core.NewContext(logger), s, core.Config{Label: "root", Focusable: true})
	s.Root.Bind(s.viewport)
	s.Focus = focus.New(s.Root)
	s.Selection = selection.New()

	navOpts := dispatch.Options{
		Root:       s.Root,
		Focus:      s.Focus,
		Logger:     logger,
		Registerer: opts.Registerer,
		Clock:      opts.Clock,
	}
	if err := cfg.Apply(&navOpts); err != nil {
		s.Root.Destroy()
		return nil, err
	}
	s.Nav = dispatch.New(navOpts)

	s.Board = s.newBoard()
	s.wire()
	for i, title := range []string{"inbox", "today", "later", "ideas", "done"} {
		s.AddNote(title, graphics.Offset{X: 24 + float64(i%3)*(CardWidth+32), Y: 32 + float64(i/3)*(CardHeight+48)})
	}
	return s, nil
}

func (s *Scene) newBoard() *Board {
	b := &Board{
		Notes:     reactive.NewList[*Note](),
		transform: reactive.NewComparable(graphics.Identity()),
	}
	b.Node = core.NewNode(s.Root, b, core.Config{Label: "board"})
	core.Adopt(s.Root, "board", b)
	b.Bind(s.viewport)
	b.cards = core.NewList(b.Node, "cards", b.Notes, func(parent *core.Node, note *Note, _ int) *Card {
		c := &Card{Note: note}
		c.Node = core.NewNode(parent, c, core.Config{
			Label:      note.Title,
			Focusable:  true,
			Selectable: true,
			Draggable:  true,
			Resizable:  true,
		})
		c.Bind(cardElement{board: b, note: note})
		core.Observe(c.Node, reactive.Reader[graphics.Rect](c.Rect()), func(r graphics.Rect, _ reactive.Change) {
			if inv, ok := b.transform.Value().Invert(); ok {
				note.At = inv.ApplyRect(r)
			}
		})
		return c
	})
	// Panning moves every card by the change in transform so hit testing
	// stays in screen space.
	core.Observe(b.Node, reactive.Reader[graphics.Transform](b.transform), func(t graphics.Transform, _ reactive.Change) {
		inv, ok := b.transform.Previous().Invert()
		if !ok {
			return
		}
		delta := inv.Then(t)
		for _, c := range b.cards.Items() {
			c.Rect().Set(delta.ApplyRect(c.Rect().Value()))
		}
	})
	return b
}

// wire attaches the stock behaviors.
func (s *Scene) wire() {
	s.Pan = behaviors.NewPan(s.Journal)

	clip := behaviors.NewClipboard(s.Journal, s.Selection)
	clip.Format = func(n *core.Node) string {
		if c, ok := n.Self().(*Card); ok {
			return c.Note.Title
		}
		return n.Label()
	}
	clip.Remove = s.removeCard
	clip.Insert = func(tx txn.Tx, at *core.Node, text string) error {
		pos := graphics.Offset{X: 24, Y: 32}
		if c, ok := at.Self().(*Card); ok {
			pos = graphics.Offset{X: c.Note.At.Left + 16, Y: c.Note.At.Bottom + 16}
		}
		note := s.AddNote(text, pos)
		tx.OnAbort(func() { s.Board.Notes.RemoveFunc(func(n *Note) bool { return n == note }) })
		return nil
	}

	s.Root.AddHeritableBehavior(behaviors.NewKeyFocus(s.Focus, s.Selection))
	s.Root.AddHeritableBehavior(behaviors.DefaultShortcuts(s.Pan, s.Selection))
	s.Root.AddHeritableBehavior(clip)

	s.Board.AddBehavior(core.NewHandlerTable("board", map[input.Kind]core.HandlerFunc{
		input.PointerUp: func(core.Dispatcher, *input.Event, *core.Node) core.Status {
			s.Selection.Clear()
			s.Focus.Blur()
			return core.Stop
		},
	}))
	s.Board.AddHeritableBehavior(behaviors.NewResize(s.Journal))
	s.Board.AddHeritableBehavior(behaviors.NewDragMove(s.Journal, s.Selection))
	s.Board.AddHeritableBehavior(behaviors.NewClickSelect(s.Focus, s.Selection))
	s.Board.AddHeritableBehavior(s.Pan)
}

// AddNote adds a card titled title with its top-left corner at pos in board
// coordinates.
func (s *Scene) AddNote(title string, pos graphics.Offset) *Note {
	note := &Note{
		ID:    uuid.NewString(),
		Title: title,
		At:    graphics.RectFromLTWH(pos.X, pos.Y, CardWidth, CardHeight),
	}
	s.Board.Notes.Append(note)
	return note
}

func (s *Scene) removeCard(tx txn.Tx, n *core.Node) error {
	c, ok := n.Self().(*Card)
	if !ok {
		return fmt.Errorf("cannot cut %s: not a card", n)
	}
	note := c.Note
	index := s.Board.Notes.IndexFunc(func(x *Note) bool { return x == note })
	if index < 0 {
		return fmt.Errorf("cannot cut %s: note is gone", n)
	}
	s.Board.Notes.Remove(index)
	tx.OnAbort(func() { s.Board.Notes.Insert(min(index, s.Board.Notes.Len()), note) })
	return nil
}

// Resize sets the screen size in plane units.
func (s *Scene) Resize(size graphics.Size) {
	s.viewport.size = size
	s.Root.Measure()
	s.Board.Measure()
}

// Reconfigure applies a reloaded config to the navigator.
func (s *Scene) Reconfigure(cfg *config.Config) error {
	var opts dispatch.Options
	if err := cfg.Apply(&opts); err != nil {
		return err
	}
	s.Nav.Reconfigure(opts)
	return nil
}

// Collect feeds one host event to the navigator.
func (s *Scene) Collect(ev *input.Event) dispatch.Result {
	res, err := s.Nav.Collect(ev)
	if err != nil {
		s.logger.Warn("dispatch failed", "kind", ev.Kind.String(), "err", err)
	}
	return res
}

// Close destroys the tree.
func (s *Scene) Close() {
	s.Root.Destroy()
}
