// Package term adapts a tcell terminal to plane: it converts terminal events
// into input events and draws a node tree as boxes of cells.
package term

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/plane/pkg/behaviors"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
)

// Size of one terminal cell in plane units.
const (
	CellWidth  = 8
	CellHeight = 16
)

// WheelStep is the delta of one wheel notch.
const WheelStep = CellHeight

// CellCenter returns the plane position of the center of cell (x, y).
func CellCenter(x, y int) graphics.Offset {
	return graphics.Offset{
		X: float64(x)*CellWidth + CellWidth/2,
		Y: float64(y)*CellHeight + CellHeight/2,
	}
}

// Converter turns tcell events into input events. Terminals report button
// state rather than transitions, so it remembers the last mask and position.
// Terminals never report key releases: every key press becomes a key down
// immediately followed by its key up.
type Converter struct {
	buttons tcell.ButtonMask
	last    graphics.Offset
	pasting bool
	paste   strings.Builder
}

// Convert returns the input events for ev, possibly none.
func (c *Converter) Convert(ev tcell.Event) []*input.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.key(ev)
	case *tcell.EventMouse:
		return c.mouse(ev)
	case *tcell.EventPaste:
		if ev.Start() {
			c.pasting = true
			c.paste.Reset()
			return nil
		}
		c.pasting = false
		text := c.paste.String()
		c.paste.Reset()
		return []*input.Event{{
			Kind: input.Paste,
			Text: text,
			Data: map[string]string{behaviors.MIMEText: text},
		}}
	}
	return nil
}

func modifiers(m tcell.ModMask) input.Modifier {
	var out input.Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(input.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(input.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(input.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		out = out.With(input.ModMeta)
	}
	return out
}

var namedKeys = map[tcell.Key]input.Key{
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyEsc:        input.KeyEscape,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyUp:         input.KeyArrowUp,
	tcell.KeyDown:       input.KeyArrowDown,
	tcell.KeyLeft:       input.KeyArrowLeft,
	tcell.KeyRight:      input.KeyArrowRight,
}

// KeyOf maps a terminal key event to a key name, its modifiers and the text
// it types, if any.
func KeyOf(ev *tcell.EventKey) (input.Key, input.Modifier, string) {
	mods := modifiers(ev.Modifiers())
	k := ev.Key()
	if named, ok := namedKeys[k]; ok {
		return named, mods, ""
	}
	switch {
	case k == tcell.KeyBacktab:
		return input.KeyTab, mods.With(input.ModShift), ""
	case k == tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return input.KeySpace, mods, " "
		}
		if unicode.IsUpper(r) {
			mods = mods.With(input.ModShift)
		}
		text := string(r)
		if mods.Has(input.ModCtrl) || mods.Has(input.ModAlt) || mods.Has(input.ModMeta) {
			text = ""
		}
		return input.Key(strings.ToLower(string(r))), mods, text
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return input.Key(rune('a' + (k - tcell.KeyCtrlA))), mods.With(input.ModCtrl), ""
	}
	return "", mods, ""
}

func (c *Converter) key(ev *tcell.EventKey) []*input.Event {
	if c.pasting {
		switch ev.Key() {
		case tcell.KeyRune:
			c.paste.WriteRune(ev.Rune())
		case tcell.KeyEnter:
			c.paste.WriteByte('\n')
		case tcell.KeyTab:
			c.paste.WriteByte('\t')
		}
		return nil
	}
	key, mods, text := KeyOf(ev)
	if key == "" {
		return nil
	}
	out := []*input.Event{{Kind: input.KeyDown, Key: key, Modifiers: mods}}
	if text != "" {
		out = append(out, &input.Event{Kind: input.TextInput, Text: text, Modifiers: mods})
	}
	// The release carries no modifiers so held modifiers do not outlive the
	// chord.
	return append(out, &input.Event{Kind: input.KeyUp, Key: key})
}

var buttons = []struct {
	mask   tcell.ButtonMask
	button input.Button
}{
	{tcell.ButtonPrimary, input.ButtonPrimary},
	{tcell.ButtonSecondary, input.ButtonSecondary},
}

func (c *Converter) mouse(ev *tcell.EventMouse) []*input.Event {
	x, y := ev.Position()
	pos := CellCenter(x, y)
	mods := modifiers(ev.Modifiers())
	mask := ev.Buttons()

	var out []*input.Event
	if w := wheel(mask); w != (graphics.Offset{}) {
		out = append(out, &input.Event{Kind: input.Wheel, Position: pos, Modifiers: mods, DeltaX: w.X, DeltaY: w.Y})
	}

	pressed := mask & (tcell.ButtonPrimary | tcell.ButtonSecondary)
	prev := c.buttons
	c.buttons = pressed
	transitions := 0
	for _, b := range buttons {
		switch {
		case pressed&b.mask != 0 && prev&b.mask == 0:
			out = append(out, &input.Event{Kind: input.PointerDown, Position: pos, Button: b.button, Modifiers: mods})
			transitions++
		case pressed&b.mask == 0 && prev&b.mask != 0:
			out = append(out, &input.Event{Kind: input.PointerUp, Position: pos, Button: b.button, Modifiers: mods})
			transitions++
		}
	}
	if transitions == 0 && pos != c.last {
		button := input.ButtonPrimary
		if pressed == tcell.ButtonSecondary {
			button = input.ButtonSecondary
		}
		out = append(out, &input.Event{Kind: input.PointerMove, Position: pos, Button: button, Modifiers: mods})
	}
	c.last = pos
	return out
}

func wheel(mask tcell.ButtonMask) graphics.Offset {
	var d graphics.Offset
	switch {
	case mask&tcell.WheelUp != 0:
		d.Y = -WheelStep
	case mask&tcell.WheelDown != 0:
		d.Y = WheelStep
	}
	switch {
	case mask&tcell.WheelLeft != 0:
		d.X = -WheelStep
	case mask&tcell.WheelRight != 0:
		d.X = WheelStep
	}
	return d
}
