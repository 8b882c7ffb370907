package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/plane/cmd/plane/internal/term"
	"github.com/go-drift/plane/pkg/behaviors"
	"github.com/go-drift/plane/pkg/config"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
)

// Host runs a scene on a terminal screen.
type Host struct {
	Screen tcell.Screen
	Scene  *Scene
	Logger *slog.Logger
	// Level is the log level adjusted on config reloads. May be nil.
	Level *slog.LevelVar

	conv      term.Converter
	render    term.Renderer
	clipboard string
}

// NewHost sizes scene to screen.
func NewHost(screen tcell.Screen, scene *Scene, logger *slog.Logger, level *slog.LevelVar) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Host{
		Screen: screen,
		Scene:  scene,
		Logger: logger,
		Level:  level,
		render: term.Renderer{Screen: screen, Handles: true},
	}
	h.resize(screen.Size())
	return h
}

// Clipboard returns the text held by the host clipboard.
func (h *Host) Clipboard() string {
	return h.clipboard
}

func (h *Host) resize(w, ht int) {
	// The last row is the status line.
	h.Scene.Resize(graphics.Size{Width: float64(w * term.CellWidth), Height: float64(max(ht-1, 0) * term.CellHeight)})
}

// Handle processes one terminal event and reports whether the host should
// quit.
func (h *Host) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.resize(ev.Size())
		h.Screen.Sync()
		return false
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlQ {
			return true
		}
		if h.clipboardKey(ev) {
			return false
		}
	}
	for _, in := range h.conv.Convert(ev) {
		h.Scene.Collect(in)
	}
	return false
}

// clipboardKey turns the clipboard shortcuts of the keymap into clipboard
// events, since terminals have no clipboard events of their own.
func (h *Host) clipboardKey(ev *tcell.EventKey) bool {
	key, mods, _ := term.KeyOf(ev)
	if key == "" {
		return false
	}
	down := input.NewDownKeys()
	down.Add(key)
	down.SyncModifiers(mods, false)
	keymap := h.Scene.Nav.Keymap()
	switch {
	case keymap.Matches(input.ShortcutCopy, down):
		h.transfer(input.Copy)
	case keymap.Matches(input.ShortcutCut, down):
		h.transfer(input.Cut)
	case keymap.Matches(input.ShortcutPaste, down):
		h.Scene.Collect(&input.Event{
			Kind: input.Paste,
			Text: h.clipboard,
			Data: map[string]string{behaviors.MIMEText: h.clipboard},
		})
	default:
		return false
	}
	return true
}

func (h *Host) transfer(kind input.Kind) {
	ev := &input.Event{Kind: kind, Data: map[string]string{}}
	h.Scene.Collect(ev)
	if text, ok := ev.Data[behaviors.MIMEText]; ok {
		h.clipboard = text
	}
}

// Status describes the scene for the status line.
func (h *Host) Status() string {
	s := h.Scene
	status := fmt.Sprintf("zoom %.0f%% | focus %s | selected %d",
		s.Board.Transform().Value().Scale()*100, s.Focus.Current().Label(), s.Selection.Size())
	if rec, ok := s.Nav.TraceLog().Last(); ok {
		status += fmt.Sprintf(" | %s@%s %s", rec.Kind, rec.Origin, rec.Status)
	}
	return status + " | ctrl+q quits"
}

// Draw renders the scene and shows it.
func (h *Host) Draw() {
	h.render.Draw(h.Scene.Root, h.Status())
	h.Screen.Show()
}

// Reload applies cfg. Invalid configs are logged and ignored.
func (h *Host) Reload(cfg *config.Config) {
	if err := h.Scene.Reconfigure(cfg); err != nil {
		h.Logger.Warn("config reload rejected", "err", err)
		return
	}
	if h.Level != nil {
		h.Level.Set(cfg.LogLevel())
	}
	h.Logger.Info("config reloaded", "version", cfg.Version)
}

// Run draws and handles events until ctx is done, events is closed or the
// user quits.
func (h *Host) Run(ctx context.Context, events <-chan tcell.Event, reloads <-chan *config.Config) error {
	h.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || h.Handle(ev) {
				return nil
			}
		case cfg := <-reloads:
			h.Reload(cfg)
		}
		h.Draw()
	}
}
