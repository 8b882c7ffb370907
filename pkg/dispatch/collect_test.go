package dispatch

import (
	"slices"
	"testing"
	"time"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
)

func TestClickSequence(t *testing.T) {
	e := newEnv(t)
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50),
		e.behavior("b", core.Stop, input.PointerDown, input.DoubleClick, input.TripleClick, input.PointerUp))

	steps := []struct {
		kind  input.Kind
		x     float64
		after time.Duration
		want  string
	}{
		{input.PointerDown, 10, 0, "pointerDown"},
		{input.PointerUp, 10, 10 * time.Millisecond, "pointerUp"},
		{input.PointerDown, 11, 100 * time.Millisecond, "doubleClick"},
		{input.PointerUp, 11, 10 * time.Millisecond, ""},
		{input.PointerDown, 12, 100 * time.Millisecond, "tripleClick"},
		{input.PointerDown, 12, time.Second, "pointerDown"},
		{input.PointerDown, 40, 50 * time.Millisecond, "pointerDown"},
	}
	for i, s := range steps {
		e.clock.Advance(s.after)
		ev := at(s.kind, s.x, 10)
		res, err := e.nav.Collect(ev)
		if err != nil {
			t.Fatalf("step %d: Collect() error = %v", i, err)
		}
		got := ""
		if res.Handled {
			got = ev.Kind.String()
		}
		if got != s.want {
			t.Errorf("step %d: dispatched %q, want %q", i, got, s.want)
		}
	}
}

func TestRightClickReleasesAlwaysDispatch(t *testing.T) {
	e := newEnv(t)
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50),
		e.behavior("b", core.Stop, input.RightPointerDown, input.RightPointerUp))

	for i := range 3 {
		e.clock.Advance(50 * time.Millisecond)
		down := at(input.RightPointerDown, 10, 10)
		e.nav.Collect(down)
		if down.Clicks != i+1 {
			t.Errorf("press %d: Clicks = %d, want %d", i, down.Clicks, i+1)
		}
		res, err := e.nav.Collect(at(input.RightPointerUp, 10, 10))
		if err != nil || !res.Handled {
			t.Errorf("release %d: Handled = %v, err = %v", i, res.Handled, err)
		}
	}
	want := []string{"b@leaf", "b@leaf", "b@leaf", "b@leaf", "b@leaf", "b@leaf"}
	if !slices.Equal(e.calls, want) {
		t.Errorf("calls = %v, want %v", e.calls, want)
	}
}

func TestDragKindsDispatchAtPoint(t *testing.T) {
	e := newEnv(t)
	kinds := []input.Kind{input.DragEnter, input.DragOver, input.DragLeave, input.Drop}
	e.node(e.root, "target", graphics.RectFromLTWH(0, 0, 50, 50), e.behavior("dnd", core.Stop, kinds...))
	e.node(e.root, "other", graphics.RectFromLTWH(60, 0, 30, 30), e.behavior("other", core.Stop, kinds...))

	tests := []struct {
		name string
		kind input.Kind
		x, y float64
		want []string
	}{
		{"enter", input.DragEnter, 10, 10, []string{"dnd@target"}},
		{"over", input.DragOver, 20, 20, []string{"dnd@target"}},
		{"leave", input.DragLeave, 20, 20, []string{"dnd@target"}},
		{"drop", input.Drop, 10, 10, []string{"dnd@target"}},
		{"drop elsewhere", input.Drop, 70, 10, []string{"other@other"}},
		{"drop on nothing", input.Drop, 500, 500, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.calls = nil
			res, err := e.nav.Collect(at(tt.kind, tt.x, tt.y))
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if !slices.Equal(e.calls, tt.want) {
				t.Errorf("calls = %v, want %v", e.calls, tt.want)
			}
			if handled := tt.want != nil; res.Handled != handled {
				t.Errorf("Handled = %v, want %v", res.Handled, handled)
			}
			if tt.want == nil && (res.Status != core.Ignore || res.Prevented || res.Trace != nil) {
				t.Errorf("miss Result = %+v, want zero", res)
			}
		})
	}
}

func TestTextKindsFollowFocus(t *testing.T) {
	e := newEnv(t)
	b := e.behavior("text", core.Stop, input.TextInput, input.Change)
	e.root.AddHeritableBehavior(b)
	field := e.node(e.root, "field", graphics.RectFromLTWH(0, 0, 10, 10))
	e.nav.Focus().SetFocus(field, core.FocusContext{Trigger: core.TriggerKey})

	// Position is ignored for text events.
	in := at(input.TextInput, 90, 90)
	in.Text = "h"
	e.nav.Collect(in)
	e.nav.Collect(&input.Event{Kind: input.Change, Text: "hi"})

	want := []string{"text@field", "text@field"}
	if !slices.Equal(e.calls, want) {
		t.Errorf("calls = %v, want %v", e.calls, want)
	}
}

func TestShiftRightClickGoesToHost(t *testing.T) {
	e := newEnv(t)
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50),
		e.behavior("menu", core.Stop, input.RightPointerDown))

	ev := at(input.PointerDown, 5, 5)
	ev.Button = input.ButtonSecondary
	ev.Modifiers = input.ModShift
	res, _ := e.nav.Collect(ev)
	if res.Status != core.Native || len(e.calls) != 0 || ev.DefaultPrevented() {
		t.Errorf("shift-right-click: Result = %+v, calls = %v", res, e.calls)
	}

	e.clock.Advance(time.Second)
	ev = at(input.PointerDown, 5, 5)
	ev.Button = input.ButtonSecondary
	e.nav.Collect(ev)
	if !slices.Equal(e.calls, []string{"menu@leaf"}) {
		t.Errorf("right-click calls = %v, want [menu@leaf]", e.calls)
	}
}

func TestHoverMarks(t *testing.T) {
	e := newEnv(t)
	a := e.node(e.root, "a", graphics.RectFromLTWH(0, 0, 50, 50),
		e.behavior("ha", core.Continue, input.PointerEnter, input.PointerLeave))
	a1 := e.node(a, "a1", graphics.RectFromLTWH(0, 0, 20, 20),
		e.behavior("ha1", core.Continue, input.PointerEnter, input.PointerLeave))
	b := e.node(e.root, "b", graphics.RectFromLTWH(60, 0, 20, 20),
		e.behavior("hb", core.Continue, input.PointerEnter, input.PointerLeave))

	e.nav.Collect(at(input.PointerMove, 5, 5))
	if e.nav.Hovered() != a1 {
		t.Fatalf("Hovered() = %v, want a1", e.nav.Hovered())
	}
	if a1.Hover().Value() != core.Leaf || a.Hover().Value() != core.Branch || e.root.Hover().Value() != core.Branch {
		t.Errorf("marks = %v/%v/%v, want leaf/branch/branch", a1.Hover().Value(), a.Hover().Value(), e.root.Hover().Value())
	}

	e.nav.Collect(at(input.PointerMove, 30, 30))
	if a.Hover().Value() != core.Leaf || a1.Hover().Value() != core.Unmarked {
		t.Errorf("after moving to a: a = %v, a1 = %v", a.Hover().Value(), a1.Hover().Value())
	}

	e.nav.Collect(at(input.PointerMove, 65, 5))
	if a.Hover().Value() != core.Unmarked || b.Hover().Value() != core.Leaf || e.root.Hover().Value() != core.Branch {
		t.Errorf("after moving to b: a = %v, b = %v, root = %v", a.Hover().Value(), b.Hover().Value(), e.root.Hover().Value())
	}

	want := []string{"ha1@a1", "ha1@a1", "ha@a", "ha@a", "hb@b"}
	if !slices.Equal(e.calls, want) {
		t.Errorf("calls = %v, want %v", e.calls, want)
	}

	core.Release(e.root, "b", b)
	if e.nav.Hovered() != nil {
		t.Errorf("Hovered() after teardown = %v, want nil", e.nav.Hovered())
	}
}

func TestWheelDevice(t *testing.T) {
	e := newEnv(t)
	var devices []input.Device
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50), core.NewHandlerTable("wheel", map[input.Kind]core.HandlerFunc{
		input.Wheel: func(_ core.Dispatcher, ev *input.Event, _ *core.Node) core.Status {
			devices = append(devices, ev.Device)
			return core.Stop
		},
	}))

	ev := at(input.Wheel, 5, 5)
	ev.DeltaY = 3
	e.nav.Collect(ev)
	e.clock.Advance(10 * time.Millisecond)
	ev = at(input.Wheel, 5, 5)
	ev.DeltaX = 1
	e.nav.Collect(ev)

	want := []input.Device{input.DeviceMouse, input.DeviceTouchpad}
	if !slices.Equal(devices, want) {
		t.Errorf("devices = %v, want %v", devices, want)
	}

	miss := at(input.Wheel, 500, 500)
	miss.Modifiers = input.ModCtrl
	miss.DeltaY = 1
	res, _ := e.nav.Collect(miss)
	if !res.Prevented {
		t.Error("ctrl-wheel outside the tree was not prevented")
	}
}

func TestWheelDeviceSparseTouchpad(t *testing.T) {
	e := newEnv(t)
	var devices []input.Device
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50), core.NewHandlerTable("wheel", map[input.Kind]core.HandlerFunc{
		input.Wheel: func(_ core.Dispatcher, ev *input.Event, _ *core.Node) core.Status {
			devices = append(devices, ev.Device)
			return core.Stop
		},
	}))

	steps := []struct {
		after  time.Duration
		dx, dy float64
		want   input.Device
	}{
		{0, 1, 2, input.DeviceTouchpad},
		{400 * time.Millisecond, 0, 2, input.DeviceTouchpad},
		{400 * time.Millisecond, 0, 2, input.DeviceTouchpad},
		{1500 * time.Millisecond, 0, 2, input.DeviceMouse},
	}
	for i, s := range steps {
		e.clock.Advance(s.after)
		ev := at(input.Wheel, 5, 5)
		ev.DeltaX, ev.DeltaY = s.dx, s.dy
		e.nav.Collect(ev)
		if got := devices[len(devices)-1]; got != s.want {
			t.Errorf("step %d: Device = %v, want %v", i, got, s.want)
		}
	}
}

func TestKeyboardOriginFollowsFocus(t *testing.T) {
	e := newEnv(t)
	b := e.behavior("keys", core.Continue, input.KeyDown, input.Paste)
	e.root.AddHeritableBehavior(b)
	a := e.node(e.root, "a", graphics.RectFromLTWH(0, 0, 10, 10))

	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: "x"})
	e.nav.Focus().SetFocus(a, core.FocusContext{Trigger: core.TriggerPointer})
	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: "y"})
	e.nav.Collect(&input.Event{Kind: input.Paste, Text: "clip"})

	want := []string{"keys@root", "keys@a", "keys@a"}
	if !slices.Equal(e.calls, want) {
		t.Errorf("calls = %v, want %v", e.calls, want)
	}
}

func TestDownKeys(t *testing.T) {
	e := newEnv(t)
	var during []string
	status := core.Stop
	e.root.AddHeritableBehavior(core.NewHandlerTable("keys", map[input.Kind]core.HandlerFunc{
		input.KeyDown: func(d core.Dispatcher, _ *input.Event, _ *core.Node) core.Status {
			during = append(during, d.DownKeys().String())
			return status
		},
	}))

	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: "Meta", Modifiers: input.ModMeta})
	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: "C", Modifiers: input.ModMeta})
	if !e.nav.DownKeys().Equals(input.KeyMeta) {
		t.Errorf("after meta-c: down = %v, want [meta]", e.nav.DownKeys())
	}
	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: "v", Modifiers: input.ModMeta})
	if !e.nav.DownKeys().Has(input.KeyMeta) {
		t.Error("meta released by a handled chord")
	}

	e.nav.Collect(&input.Event{Kind: input.KeyUp, Key: "Meta"})
	if e.nav.DownKeys().Len() != 0 {
		t.Errorf("after meta up: down = %v, want none", e.nav.DownKeys())
	}

	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: "Escape"})
	if e.nav.DownKeys().Len() != 0 {
		t.Errorf("after escape: down = %v, want none", e.nav.DownKeys())
	}
	e.nav.Collect(&input.Event{Kind: input.KeyDown, Key: input.KeyDead})

	want := []string{"meta", "c+meta", "meta+v", "escape", ""}
	if len(during) != len(want) {
		t.Fatalf("during = %q, want %q", during, want)
	}
	for i := range want {
		if during[i] != want[i] {
			t.Errorf("during[%d] = %q, want %q", i, during[i], want[i])
		}
	}
}

func TestClosedNavigatorIgnoresEvents(t *testing.T) {
	e := newEnv(t)
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50), e.behavior("b", core.Stop, input.PointerDown))
	e.nav.Close()
	res, err := e.nav.Collect(at(input.PointerDown, 5, 5))
	if err != nil || res.Handled || len(e.calls) != 0 {
		t.Errorf("Collect() after Close = %+v, %v, calls %v", res, err, e.calls)
	}
}

func TestReconfigure(t *testing.T) {
	e := newEnv(t)
	e.node(e.root, "leaf", graphics.RectFromLTWH(0, 0, 50, 50),
		e.behavior("b", core.Stop, input.PointerDown, input.DoubleClick))

	press := func(after time.Duration) input.Kind {
		e.clock.Advance(after)
		ev := at(input.PointerDown, 10, 10)
		if _, err := e.nav.Collect(ev); err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		return ev.Kind
	}

	press(time.Second)
	if got := press(300 * time.Millisecond); got != input.DoubleClick {
		t.Fatalf("second press with default interval = %v, want doubleClick", got)
	}

	e.nav.Reconfigure(Options{ClickInterval: 200 * time.Millisecond, Keymap: input.NewKeymap(input.PlatformMac)})
	press(time.Second)
	if got := press(300 * time.Millisecond); got != input.PointerDown {
		t.Errorf("second press after 300ms with 200ms interval = %v, want pointerDown", got)
	}
	if e.nav.Keymap().Platform != input.PlatformMac {
		t.Errorf("Keymap().Platform = %v, want mac", e.nav.Keymap().Platform)
	}
}
