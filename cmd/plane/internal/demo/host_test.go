package demo

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/plane/pkg/config"
	"github.com/go-drift/plane/pkg/graphics"
)

func newTestHost(t *testing.T) (*Host, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	s, _ := newTestScene(t)
	return NewHost(screen, s, s.logger, new(slog.LevelVar)), screen
}

func click(h *Host, x, y int) {
	h.Handle(tcell.NewEventMouse(x, y, tcell.ButtonPrimary, tcell.ModNone))
	h.Handle(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func ctrl(ch rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModCtrl)
}

func TestNewHostSizesScene(t *testing.T) {
	h, _ := newTestHost(t)
	// 30 rows minus the status line.
	want := graphics.RectFromLTWH(0, 0, 80*8, 29*16)
	if got := h.Scene.Root.Rect().Value(); got != want {
		t.Errorf("root rect = %v, want %v", got, want)
	}

	h.Handle(tcell.NewEventResize(40, 11))
	want = graphics.RectFromLTWH(0, 0, 40*8, 10*16)
	if got := h.Scene.Root.Rect().Value(); got != want {
		t.Errorf("root rect after resize = %v, want %v", got, want)
	}
}

func TestHostClickSelects(t *testing.T) {
	h, _ := newTestHost(t)
	inbox := cardNamed(t, h.Scene, "inbox")

	click(h, 5, 3)

	if !h.Scene.Selection.Contains(inbox.Node) {
		t.Error("inbox not selected")
	}
	if got := h.Scene.Focus.Current(); got != inbox.Node {
		t.Errorf("focus = %v, want inbox", got)
	}
	if got := h.Status(); !strings.Contains(got, "focus inbox | selected 1") {
		t.Errorf("Status() = %q, want focus and selection", got)
	}
}

func TestHostClipboard(t *testing.T) {
	h, _ := newTestHost(t)
	click(h, 5, 3)

	h.Handle(ctrl('c'))
	if got := h.Clipboard(); got != "inbox" {
		t.Fatalf("Clipboard() after copy = %q, want %q", got, "inbox")
	}
	if got := len(h.Scene.Board.Cards()); got != 5 {
		t.Errorf("cards after copy = %d, want 5", got)
	}

	h.Handle(ctrl('x'))
	if got := titles(h.Scene); strings.Join(got, ",") != "today,later,ideas,done" {
		t.Errorf("titles after cut = %v", got)
	}

	h.Handle(ctrl('v'))
	got := titles(h.Scene)
	if len(got) != 5 || got[4] != "inbox" {
		t.Errorf("titles after paste = %v, want inbox appended", got)
	}
}

func TestHostQuit(t *testing.T) {
	h, _ := newTestHost(t)
	if h.Handle(ctrl('a')) {
		t.Error("Handle(ctrl+a) = true, want false")
	}
	if !h.Handle(ctrl('q')) {
		t.Error("Handle(ctrl+q) = false, want true")
	}
}

func TestHostReload(t *testing.T) {
	h, _ := newTestHost(t)
	cfg := testConfig()
	cfg.Log.Level = "debug"
	h.Reload(cfg)
	if got := h.Level.Level(); got != slog.LevelDebug {
		t.Errorf("level = %v, want %v", got, slog.LevelDebug)
	}

	bad := testConfig()
	bad.Log.Level = "warn"
	bad.Input.Platform = "amiga"
	h.Reload(bad)
	if got := h.Level.Level(); got != slog.LevelDebug {
		t.Errorf("level after rejected reload = %v, want %v", got, slog.LevelDebug)
	}
}

func TestHostRun(t *testing.T) {
	h, screen := newTestHost(t)
	events := make(chan tcell.Event, 4)
	reloads := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background(), events, reloads) }()

	events <- tcell.NewEventMouse(5, 3, tcell.ButtonPrimary, tcell.ModNone)
	events <- tcell.NewEventMouse(5, 3, tcell.ButtonNone, tcell.ModNone)
	events <- ctrl('q')

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after ctrl+q")
	}

	cells, w, _ := screen.GetContents()
	if c := cells[2*w+3]; len(c.Runes) == 0 || c.Runes[0] != tcell.RuneULCorner {
		t.Errorf("cell(3, 2) = %v, want a box corner", c.Runes)
	}
}

func TestHostRunStopsOnCancel(t *testing.T) {
	h, _ := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Run(ctx, nil, nil); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
}
