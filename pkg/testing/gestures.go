package testing

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/dispatch"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
)

// GestureGap is how far the clock moves before each new gesture, so that
// separate taps are never counted as one double click.
const GestureGap = time.Second

// dragSteps is the number of move events a drag is split into.
const dragSteps = 4

// Send collects one raw event and fails the test on a dispatch error.
func (t *Tester) Send(ev *input.Event) dispatch.Result {
	t.t.Helper()
	res, err := t.Nav.Collect(ev)
	if err != nil {
		t.t.Errorf("Collect(%s) error = %v", ev.Kind, err)
	}
	return res
}

func (t *Tester) pointer(kind input.Kind, pos graphics.Offset, button input.Button, mods input.Modifier) dispatch.Result {
	t.t.Helper()
	return t.Send(&input.Event{Kind: kind, Position: pos, Button: button, Modifiers: mods})
}

// TapAt presses and releases the primary button at pos.
func (t *Tester) TapAt(pos graphics.Offset, mods ...input.Modifier) {
	t.t.Helper()
	m := combine(mods)
	t.Clock.Advance(GestureGap)
	t.pointer(input.PointerDown, pos, input.ButtonPrimary, m)
	t.pointer(input.PointerUp, pos, input.ButtonPrimary, m)
}

// Tap taps the center of the first node matched by f.
func (t *Tester) Tap(f Finder, mods ...input.Modifier) error {
	t.t.Helper()
	res := t.Find(f)
	if !res.Exists() {
		return fmt.Errorf("Tap: finder matched no nodes: %s", f.Description())
	}
	t.TapAt(res.First().Rect().Value().Center(), mods...)
	return nil
}

// DoubleTapAt taps twice at pos within the double-click interval and
// returns the result of the second press.
func (t *Tester) DoubleTapAt(pos graphics.Offset) dispatch.Result {
	t.t.Helper()
	t.TapAt(pos)
	t.Clock.Advance(50 * time.Millisecond)
	res := t.pointer(input.PointerDown, pos, input.ButtonPrimary, 0)
	t.pointer(input.PointerUp, pos, input.ButtonPrimary, 0)
	return res
}

// MoveTo moves the pointer to pos with no button held.
func (t *Tester) MoveTo(pos graphics.Offset) dispatch.Result {
	t.t.Helper()
	return t.pointer(input.PointerMove, pos, input.ButtonPrimary, 0)
}

// DragFrom drags with the primary button from start by delta.
func (t *Tester) DragFrom(start, delta graphics.Offset, mods ...input.Modifier) {
	t.t.Helper()
	t.drag(start, delta, input.ButtonPrimary, combine(mods), nil)
}

// RightDragFrom drags with the secondary button from start by delta.
func (t *Tester) RightDragFrom(start, delta graphics.Offset) {
	t.t.Helper()
	t.drag(start, delta, input.ButtonSecondary, 0, nil)
}

// DragFromThen drags from start by delta and calls mid, if not nil, while
// the button is still held.
func (t *Tester) DragFromThen(start, delta graphics.Offset, mid func()) {
	t.t.Helper()
	t.drag(start, delta, input.ButtonPrimary, 0, mid)
}

func (t *Tester) drag(start, delta graphics.Offset, button input.Button, mods input.Modifier, mid func()) {
	t.t.Helper()
	t.Clock.Advance(GestureGap)
	t.pointer(input.PointerDown, start, button, mods)
	for i := 1; i <= dragSteps; i++ {
		t.Clock.Advance(16 * time.Millisecond)
		t.pointer(input.PointerMove, start.Add(delta.Scale(float64(i)/dragSteps)), button, mods)
	}
	if mid != nil {
		mid()
	}
	t.pointer(input.PointerUp, start.Add(delta), button, mods)
}

// KeyDown presses key with mods held.
func (t *Tester) KeyDown(key input.Key, mods ...input.Modifier) dispatch.Result {
	t.t.Helper()
	return t.Send(&input.Event{Kind: input.KeyDown, Key: key, Modifiers: combine(mods)})
}

// KeyUp releases key with mods still held.
func (t *Tester) KeyUp(key input.Key, mods ...input.Modifier) dispatch.Result {
	t.t.Helper()
	return t.Send(&input.Event{Kind: input.KeyUp, Key: key, Modifiers: combine(mods)})
}

// KeyPress presses and releases key with mods held and returns the result
// of the press.
func (t *Tester) KeyPress(key input.Key, mods ...input.Modifier) dispatch.Result {
	t.t.Helper()
	res := t.KeyDown(key, mods...)
	t.KeyUp(key, mods...)
	return res
}

// Chord presses keys in order, accumulating modifiers, then releases them in
// reverse. A chord such as "control-c" is Chord(input.KeyControl, "c"). It
// returns the result of the last press.
func (t *Tester) Chord(keys ...input.Key) dispatch.Result {
	t.t.Helper()
	var mods input.Modifier
	var res dispatch.Result
	for _, k := range keys {
		mods = mods.With(modifierOf(k))
		res = t.KeyDown(k, mods)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		mods = mods.Without(modifierOf(keys[i]))
		t.KeyUp(keys[i], mods)
	}
	return res
}

func modifierOf(k input.Key) input.Modifier {
	switch input.Key(strings.ToLower(string(k))) {
	case input.KeyShift:
		return input.ModShift
	case input.KeyControl:
		return input.ModCtrl
	case input.KeyAlt:
		return input.ModAlt
	case input.KeyMeta:
		return input.ModMeta
	}
	return input.ModNone
}

// Copy sends a copy event and returns the plain-text payload behaviors put
// on it.
func (t *Tester) Copy() string {
	t.t.Helper()
	ev := &input.Event{Kind: input.Copy, Data: map[string]string{}}
	t.Send(ev)
	return ev.Data["text/plain"]
}

// Cut sends a cut event and returns the plain-text payload.
func (t *Tester) Cut() string {
	t.t.Helper()
	ev := &input.Event{Kind: input.Cut, Data: map[string]string{}}
	t.Send(ev)
	return ev.Data["text/plain"]
}

// Paste sends a paste event carrying text.
func (t *Tester) Paste(text string) dispatch.Result {
	t.t.Helper()
	return t.Send(&input.Event{Kind: input.Paste, Data: map[string]string{"text/plain": text}})
}

// Wheel scrolls at pos.
func (t *Tester) Wheel(pos graphics.Offset, dx, dy float64, mods ...input.Modifier) dispatch.Result {
	t.t.Helper()
	t.Clock.Advance(16 * time.Millisecond)
	return t.Send(&input.Event{Kind: input.Wheel, Position: pos, DeltaX: dx, DeltaY: dy, Modifiers: combine(mods)})
}

// FocusOn focuses the first node matched by f programmatically.
func (t *Tester) FocusOn(f Finder) *core.Node {
	t.t.Helper()
	n := t.Find(f).FirstOrNil()
	if n == nil {
		t.t.Fatalf("FocusOn: finder matched no nodes: %s", f.Description())
	}
	t.Focus.SetFocus(n, core.FocusContext{})
	return n
}

func combine(mods []input.Modifier) input.Modifier {
	var m input.Modifier
	for _, mod := range mods {
		m = m.With(mod)
	}
	return m
}
