package demo

import (
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/plane/pkg/config"
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	planetest "github.com/go-drift/plane/pkg/testing"
	"github.com/go-drift/plane/pkg/txn"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Input.Platform = "other"
	return cfg
}

func newTestScene(t *testing.T) (*Scene, *planetest.FakeClock) {
	t.Helper()
	clock := planetest.NewFakeClock()
	s, err := New(Options{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registerer: prometheus.NewRegistry(),
		Config:     testConfig(),
		Size:       graphics.Size{Width: 640, Height: 464},
		Clock:      clock,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s, clock
}

func titles(s *Scene) []string {
	var out []string
	for _, c := range s.Board.Cards() {
		out = append(out, c.Note.Title)
	}
	return out
}

func cardNamed(t *testing.T, s *Scene, title string) *Card {
	t.Helper()
	for _, c := range s.Board.Cards() {
		if c.Note.Title == title {
			return c
		}
	}
	t.Fatalf("no card titled %q", title)
	return nil
}

func (s *Scene) send(clock *planetest.FakeClock, kind input.Kind, pos graphics.Offset, button input.Button) {
	clock.Advance(10 * time.Millisecond)
	s.Collect(&input.Event{Kind: kind, Position: pos, Button: button})
}

func (s *Scene) drag(clock *planetest.FakeClock, from, delta graphics.Offset, button input.Button) {
	s.send(clock, input.PointerDown, from, button)
	for i := 1; i <= 4; i++ {
		s.send(clock, input.PointerMove, from.Add(delta.Scale(float64(i)/4)), button)
	}
	s.send(clock, input.PointerUp, from.Add(delta), button)
}

func TestNewScene(t *testing.T) {
	s, _ := newTestScene(t)
	want := []string{"inbox", "today", "later", "ideas", "done"}
	if got := titles(s); !slices.Equal(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	inbox := cardNamed(t, s, "inbox")
	if got, want := inbox.Rect().Value(), graphics.RectFromLTWH(24, 32, CardWidth, CardHeight); got != want {
		t.Errorf("inbox rect = %v, want %v", got, want)
	}
	if inbox.Note.ID == "" {
		t.Error("note ID is empty")
	}
	if got := s.Focus.Current(); got != s.Root {
		t.Errorf("focus = %v, want root", got)
	}
}

func TestSceneDragCard(t *testing.T) {
	s, clock := newTestScene(t)
	inbox := cardNamed(t, s, "inbox")

	s.drag(clock, graphics.Offset{X: 40, Y: 40}, graphics.Offset{X: 80, Y: 20}, input.ButtonPrimary)

	if got, want := inbox.Note.At, graphics.RectFromLTWH(104, 52, CardWidth, CardHeight); got != want {
		t.Errorf("note.At = %v, want %v", got, want)
	}
	if got := len(s.Journal.Commits()); got != 1 {
		t.Errorf("commits = %d, want 1", got)
	}
}

func TestScenePanKeepsNotes(t *testing.T) {
	s, clock := newTestScene(t)
	inbox := cardNamed(t, s, "inbox")

	s.drag(clock, graphics.Offset{X: 500, Y: 400}, graphics.Offset{X: 40, Y: 32}, input.ButtonSecondary)

	if got, want := s.Board.Transform().Value().Offset(), (graphics.Offset{X: 40, Y: 32}); got != want {
		t.Errorf("board offset = %v, want %v", got, want)
	}
	if got, want := inbox.Rect().Value(), graphics.RectFromLTWH(64, 64, CardWidth, CardHeight); got != want {
		t.Errorf("inbox rect = %v, want %v", got, want)
	}
	if got, want := inbox.Note.At, graphics.RectFromLTWH(24, 32, CardWidth, CardHeight); got != want {
		t.Errorf("note.At = %v, want %v", got, want)
	}

	// Cards are hit where they are drawn.
	if got := s.Root.NodeAt(graphics.Offset{X: 70, Y: 70}, true); got != inbox.Node {
		t.Errorf("NodeAt() = %v, want inbox", got)
	}
}

func TestSceneBoardClickClears(t *testing.T) {
	s, clock := newTestScene(t)
	inbox := cardNamed(t, s, "inbox")
	s.Focus.SetFocus(inbox.Node, core.FocusContext{})
	s.Selection.AddSelect(inbox.Node)

	s.send(clock, input.PointerDown, graphics.Offset{X: 500, Y: 400}, input.ButtonPrimary)
	s.send(clock, input.PointerUp, graphics.Offset{X: 500, Y: 400}, input.ButtonPrimary)

	if got := s.Selection.Size(); got != 0 {
		t.Errorf("selection size = %d, want 0", got)
	}
	if got := s.Focus.Current(); got != s.Root {
		t.Errorf("focus = %v, want root", got)
	}
}

func TestSceneAddAndRemove(t *testing.T) {
	s, _ := newTestScene(t)
	note := s.AddNote("new", graphics.Offset{X: 300, Y: 300})
	c := cardNamed(t, s, "new")
	if c.Note != note {
		t.Fatalf("card note = %v, want %v", c.Note, note)
	}

	err := s.Journal.WithTransaction(t.Context(), func(tx txn.Tx) error {
		return s.removeCard(tx, c.Node)
	})
	if err != nil {
		t.Fatalf("removeCard() error = %v", err)
	}
	if c.Alive() {
		t.Error("removed card is still alive")
	}
	if got := len(s.Board.Cards()); got != 5 {
		t.Errorf("cards = %d, want 5", got)
	}
	if err := s.removeCard(nil, s.Board.Node); err == nil {
		t.Error("removeCard(board) error = nil, want error")
	}
}

func TestSceneReconfigure(t *testing.T) {
	s, _ := newTestScene(t)
	cfg := testConfig()
	cfg.Input.Platform = "mac"
	if err := s.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure() error = %v", err)
	}
	if got := s.Nav.Keymap().MetaKey(); got != input.KeyMeta {
		t.Errorf("MetaKey() = %v, want %v", got, input.KeyMeta)
	}
	cfg.Input.Platform = "amiga"
	if err := s.Reconfigure(cfg); err == nil {
		t.Error("Reconfigure(bad platform) error = nil, want error")
	}
}

func TestSceneResize(t *testing.T) {
	s, _ := newTestScene(t)
	s.Resize(graphics.Size{Width: 100, Height: 50})
	want := graphics.RectFromLTWH(0, 0, 100, 50)
	if got := s.Root.Rect().Value(); got != want {
		t.Errorf("root rect = %v, want %v", got, want)
	}
	if got := s.Board.Rect().Value(); got != want {
		t.Errorf("board rect = %v, want %v", got, want)
	}
}
