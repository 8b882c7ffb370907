package behaviors_test

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/plane/pkg/behaviors"
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	planetest "github.com/go-drift/plane/pkg/testing"
)

const epsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < epsilon }

// panSetup builds a plane filling the tester root with one card inside it.
func panSetup(t *testing.T) (*planetest.Tester, *behaviors.Pan, *planetest.Plane) {
	t.Helper()
	tester := planetest.New(t)
	pan := behaviors.NewPan(tester.Journal)
	plane := planetest.NewPlane()
	node := tester.AddWith(tester.Root, plane, "plane", graphics.RectFromLTWH(0, 0, 400, 300), core.Config{
		Behaviors: []core.Behavior{pan},
	})
	tester.Add(node, "card", graphics.RectFromLTWH(50, 50, 100, 60), core.Config{Focusable: true})
	return tester, pan, plane
}

func TestPanRightDrag(t *testing.T) {
	tester, pan, plane := panSetup(t)

	tester.RightDragFrom(graphics.Offset{X: 200, Y: 200}, graphics.Offset{X: 40, Y: 20})

	if got, want := plane.Transform().Value().Offset(), (graphics.Offset{X: 40, Y: 20}); got != want {
		t.Errorf("offset = %v, want %v", got, want)
	}
	if pan.Active() {
		t.Error("Active() = true after release")
	}
	tester.AssertNoOverrides()
	entries := tester.Journal.Entries()
	if len(entries) != 1 || entries[0].Op != "viewport" {
		t.Fatalf("journal = %+v, want one viewport entry", entries)
	}
	if entries[0].Value != plane.Transform().Value() {
		t.Errorf("journal value = %v, want %v", entries[0].Value, plane.Transform().Value())
	}
}

func TestPanRepeatedRightClicks(t *testing.T) {
	tests := []struct {
		name   string
		clicks int
	}{
		{"double", 2},
		{"triple", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester, pan, plane := panSetup(t)
			pos := graphics.Offset{X: 200, Y: 200}

			tester.RightDragFrom(pos, graphics.Offset{X: 1, Y: 1})
			for i := 1; i < tt.clicks; i++ {
				tester.Clock.Advance(50 * time.Millisecond)
				tester.Send(&input.Event{Kind: input.RightPointerDown, Position: pos, Button: input.ButtonSecondary})
				tester.Send(&input.Event{Kind: input.RightPointerUp, Position: pos, Button: input.ButtonSecondary})
			}

			if pan.Active() {
				t.Error("Active() = true after the last release")
			}
			tester.AssertNoOverrides()

			tester.RightDragFrom(pos, graphics.Offset{X: 40, Y: 0})
			if got, want := plane.Transform().Value().Offset(), (graphics.Offset{X: 40, Y: 0}); got != want {
				t.Errorf("offset after clicks = %v, want %v", got, want)
			}
		})
	}
}

func TestPanBelowThreshold(t *testing.T) {
	tester, _, plane := panSetup(t)

	tester.RightDragFrom(graphics.Offset{X: 200, Y: 200}, graphics.Offset{X: 3, Y: -2})

	if got := plane.Transform().Value(); got != graphics.Identity() {
		t.Errorf("transform = %v, want identity", got)
	}
	if n := len(tester.Journal.Commits()); n != 0 {
		t.Errorf("commits = %d, want 0", n)
	}
	tester.AssertNoOverrides()
}

func TestPanSpaceDrag(t *testing.T) {
	tester, _, plane := panSetup(t)

	tester.DragFrom(graphics.Offset{X: 200, Y: 200}, graphics.Offset{X: 20, Y: 0})
	if got := plane.Transform().Value(); got != graphics.Identity() {
		t.Fatalf("plain drag panned the plane: %v", got)
	}

	tester.KeyDown(input.KeySpace)
	tester.DragFrom(graphics.Offset{X: 200, Y: 200}, graphics.Offset{X: 20, Y: 0})
	tester.KeyUp(input.KeySpace)
	if got, want := plane.Transform().Value().Offset(), (graphics.Offset{X: 20, Y: 0}); got != want {
		t.Errorf("offset = %v, want %v", got, want)
	}
	tester.AssertNoOverrides()
}

func TestPanEscapeRestores(t *testing.T) {
	tester, pan, plane := panSetup(t)
	plane.Transform().Set(graphics.Translation(5, 5))

	tester.KeyDown(input.KeySpace)
	tester.DragFromThen(graphics.Offset{X: 200, Y: 200}, graphics.Offset{X: 60, Y: 60}, func() {
		if !pan.Active() {
			t.Error("Active() = false mid-drag")
		}
		tester.KeyPress(input.KeyEscape)
		if pan.Active() {
			t.Error("Active() = true after escape")
		}
	})

	if got := plane.Transform().Value(); got != graphics.Translation(5, 5) {
		t.Errorf("transform = %v, want restored start", got)
	}
	if n := len(tester.Journal.Commits()); n != 0 {
		t.Errorf("commits = %d, want 0", n)
	}
	tester.AssertNoOverrides()
}

func TestPanWheel(t *testing.T) {
	tests := []struct {
		name       string
		natural    bool
		dx, dy     float64
		mods       input.Modifier
		wantScale  float64
		wantOffset graphics.Offset
		wantSaved  bool
	}{
		{name: "mouse zoom in", natural: true, dy: -10, wantScale: 1.09, wantSaved: true},
		{name: "mouse zoom out", natural: true, dy: 10, wantScale: 0.91, wantSaved: true},
		{name: "pinch", natural: true, dy: 10, mods: input.ModCtrl, wantScale: 0.9, wantSaved: true},
		{name: "pinch to floor", natural: true, dy: 100, mods: input.ModCtrl, wantScale: 1},
		{name: "touchpad natural", natural: true, dx: 10, dy: 20, wantScale: 1, wantOffset: graphics.Offset{X: -3, Y: -6}, wantSaved: true},
		{name: "touchpad inverted", dx: 10, dy: 20, wantScale: 1, wantOffset: graphics.Offset{X: 3, Y: 6}, wantSaved: true},
		{name: "touchpad meta zooms", natural: true, dx: 10, dy: 20, mods: input.ModMeta, wantScale: 0.91, wantSaved: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester, pan, plane := panSetup(t)
			pan.Natural = tt.natural
			pos := graphics.Offset{X: 0, Y: 0}

			tester.Wheel(pos, tt.dx, tt.dy, tt.mods)

			tr := plane.Transform().Value()
			if !near(tr.Scale(), tt.wantScale) {
				t.Errorf("scale = %v, want %v", tr.Scale(), tt.wantScale)
			}
			if off := tr.Offset(); !near(off.X, tt.wantOffset.X) || !near(off.Y, tt.wantOffset.Y) {
				t.Errorf("offset = %v, want %v", off, tt.wantOffset)
			}
			if saved := len(tester.Journal.Commits()) == 1; saved != tt.wantSaved {
				t.Errorf("saved = %v, want %v", saved, tt.wantSaved)
			}
		})
	}
}

func TestZoomSteps(t *testing.T) {
	tester, pan, plane := panSetup(t)
	card := tester.Find(planetest.ByLabel("card")).First()

	steps := []struct {
		name string
		do   func(*core.Node) bool
		want float64
	}{
		{"in", pan.ZoomIn, 1.1},
		{"in", pan.ZoomIn, 1.2},
		{"out", pan.ZoomOut, 1.1},
		{"reset", pan.ResetZoom, 1},
		{"out", pan.ZoomOut, 0.9},
	}
	for i, s := range steps {
		if !s.do(card) {
			t.Fatalf("step %d (%s) reported no plane", i, s.name)
		}
		if got := plane.Transform().Value().Scale(); !near(got, s.want) {
			t.Errorf("step %d (%s): scale = %v, want %v", i, s.name, got, s.want)
		}
	}
	if pan.ZoomIn(tester.Root) {
		t.Error("ZoomIn(root) = true outside any plane")
	}
	if n := len(tester.Journal.Commits()); n != len(steps) {
		t.Errorf("commits = %d, want %d", n, len(steps))
	}
}

func TestPanReleasedWhenPlaneDestroyed(t *testing.T) {
	tester, pan, _ := panSetup(t)
	node := tester.Find(planetest.ByLabel("plane")).First()

	tester.Clock.Advance(planetest.GestureGap)
	tester.Send(&input.Event{Kind: input.RightPointerDown, Position: graphics.Offset{X: 10, Y: 10}, Button: input.ButtonSecondary})
	if !pan.Active() {
		t.Fatal("Active() = false after right press")
	}
	tester.Remove(tester.Root, "plane", node)

	if pan.Active() {
		t.Error("Active() = true after the plane was destroyed")
	}
	tester.AssertNoOverrides()
}
