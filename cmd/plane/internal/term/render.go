package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/plane/pkg/core"
)

// Styles used by the renderer.
var (
	StyleBox      = tcell.StyleDefault
	StyleFocused  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	StyleSelected = tcell.StyleDefault.Reverse(true)
	StyleHovered  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	StyleStatus   = tcell.StyleDefault.Reverse(true)
)

// Renderer draws the nodes of a tree as labelled boxes.
type Renderer struct {
	Screen tcell.Screen
	// Filter picks the nodes drawn. Nil draws every node below the root.
	Filter func(*core.Node) bool
	// Handles marks the bottom-right corner of resizable nodes.
	Handles bool
}

// CellRect is a rectangle of terminal cells, inclusive on all sides.
type CellRect struct {
	X0, Y0, X1, Y1 int
}

// CellsOf converts a node rect in plane units to the cells it covers.
func CellsOf(n *core.Node) CellRect {
	r := n.Rect().Value()
	return CellRect{
		X0: int(math.Floor(r.Left / CellWidth)),
		Y0: int(math.Floor(r.Top / CellHeight)),
		X1: int(math.Ceil(r.Right/CellWidth)) - 1,
		Y1: int(math.Ceil(r.Bottom/CellHeight)) - 1,
	}
}

// Draw clears the screen, draws root's descendants in tree order and puts
// status on the last row. It does not call Show.
func (r *Renderer) Draw(root *core.Node, status string) {
	r.Screen.Clear()
	root.Walk(func(n *core.Node) bool {
		if !n.IsVisible() {
			return false
		}
		if n != root && (r.Filter == nil || r.Filter(n)) {
			r.box(n)
		}
		return true
	})
	r.status(status)
}

func (r *Renderer) style(n *core.Node) tcell.Style {
	switch {
	case n.Focused().Value() == core.Leaf:
		return StyleFocused
	case n.Selected().Value():
		return StyleSelected
	case n.Hover().Value() == core.Leaf:
		return StyleHovered
	}
	return StyleBox
}

func (r *Renderer) box(n *core.Node) {
	c := CellsOf(n)
	if c.X1 <= c.X0 || c.Y1 <= c.Y0 {
		return
	}
	style := r.style(n)
	for x := c.X0 + 1; x < c.X1; x++ {
		r.set(x, c.Y0, tcell.RuneHLine, style)
		r.set(x, c.Y1, tcell.RuneHLine, style)
	}
	for y := c.Y0 + 1; y < c.Y1; y++ {
		r.set(c.X0, y, tcell.RuneVLine, style)
		r.set(c.X1, y, tcell.RuneVLine, style)
		for x := c.X0 + 1; x < c.X1; x++ {
			r.set(x, y, ' ', style)
		}
	}
	r.set(c.X0, c.Y0, tcell.RuneULCorner, style)
	r.set(c.X1, c.Y0, tcell.RuneURCorner, style)
	r.set(c.X0, c.Y1, tcell.RuneLLCorner, style)
	r.set(c.X1, c.Y1, tcell.RuneLRCorner, style)
	if r.Handles && n.Config().Resizable {
		r.set(c.X1, c.Y1, '◢', style)
	}
	r.text(c.X0+1, c.Y0+1, c.X1-c.X0-1, n.Label(), style)
}

func (r *Renderer) status(text string) {
	w, h := r.Screen.Size()
	if h == 0 {
		return
	}
	for x := 0; x < w; x++ {
		r.set(x, h-1, ' ', StyleStatus)
	}
	r.text(0, h-1, w, text, StyleStatus)
}

func (r *Renderer) text(x, y, width int, s string, style tcell.Style) {
	for _, ch := range s {
		if width <= 0 {
			return
		}
		r.set(x, y, ch, style)
		x++
		width--
	}
}

func (r *Renderer) set(x, y int, ch rune, style tcell.Style) {
	w, h := r.Screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	r.Screen.SetContent(x, y, ch, nil, style)
}
