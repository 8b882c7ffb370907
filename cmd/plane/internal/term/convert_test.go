package term

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/plane/pkg/behaviors"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
)

func kinds(evs []*input.Event) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind.String()
	}
	return out
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		wantKey  input.Key
		wantMods input.Modifier
		wantText string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), "q", 0, "q"},
		{"uppercase", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift), "q", input.ModShift, "Q"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), input.KeySpace, 0, " "},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModCtrl), "c", input.ModCtrl, ""},
		{"ctrl code", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModNone), "z", input.ModCtrl, ""},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "x", input.ModAlt, ""},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), input.KeyEnter, 0, ""},
		{"escape", tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone), input.KeyEscape, 0, ""},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), input.KeyTab, input.ModShift, ""},
		{"shift arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift), input.KeyArrowRight, input.ModShift, ""},
		{"unknown", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, mods, text := KeyOf(tt.ev)
			if key != tt.wantKey || mods != tt.wantMods || text != tt.wantText {
				t.Errorf("KeyOf() = (%q, %v, %q), want (%q, %v, %q)", key, mods, text, tt.wantKey, tt.wantMods, tt.wantText)
			}
		})
	}
}

func TestConvertKey(t *testing.T) {
	var c Converter

	got := c.Convert(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	if want := []string{"keyDown", "input", "keyUp"}; !slices.Equal(kinds(got), want) {
		t.Fatalf("Convert(a) = %v, want %v", kinds(got), want)
	}
	if got[1].Text != "a" {
		t.Errorf("TextInput.Text = %q, want %q", got[1].Text, "a")
	}

	got = c.Convert(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModCtrl))
	if want := []string{"keyDown", "keyUp"}; !slices.Equal(kinds(got), want) {
		t.Fatalf("Convert(ctrl+a) = %v, want %v", kinds(got), want)
	}
	if !got[0].Modifiers.Has(input.ModCtrl) {
		t.Errorf("KeyDown.Modifiers = %v, want control", got[0].Modifiers)
	}
	if got[1].Modifiers != 0 {
		t.Errorf("KeyUp.Modifiers = %v, want none", got[1].Modifiers)
	}

	if got := c.Convert(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); len(got) != 0 {
		t.Errorf("Convert(F5) = %v, want none", kinds(got))
	}
}

func TestConvertPaste(t *testing.T) {
	var c Converter
	if got := c.Convert(tcell.NewEventPaste(true)); len(got) != 0 {
		t.Fatalf("Convert(paste start) = %v, want none", kinds(got))
	}
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, '!', tcell.ModNone),
	} {
		if got := c.Convert(ev); len(got) != 0 {
			t.Fatalf("Convert(key while pasting) = %v, want none", kinds(got))
		}
	}
	got := c.Convert(tcell.NewEventPaste(false))
	if len(got) != 1 || got[0].Kind != input.Paste {
		t.Fatalf("Convert(paste end) = %v, want [paste]", kinds(got))
	}
	if got[0].Text != "hi\n!" || got[0].Data[behaviors.MIMEText] != "hi\n!" {
		t.Errorf("paste = %q / %q, want %q", got[0].Text, got[0].Data[behaviors.MIMEText], "hi\n!")
	}

	// Typing works again once the paste ends.
	if got := c.Convert(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); len(got) != 3 {
		t.Errorf("Convert(x) after paste = %v, want 3 events", kinds(got))
	}
}

func TestConvertMouse(t *testing.T) {
	tests := []struct {
		name       string
		steps      []*tcell.EventMouse
		want       []string
		wantButton input.Button
	}{
		{
			name: "click",
			steps: []*tcell.EventMouse{
				tcell.NewEventMouse(2, 3, tcell.ButtonPrimary, tcell.ModNone),
				tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone),
			},
			want:       []string{"pointerDown", "pointerUp"},
			wantButton: input.ButtonPrimary,
		},
		{
			name: "drag",
			steps: []*tcell.EventMouse{
				tcell.NewEventMouse(2, 3, tcell.ButtonPrimary, tcell.ModNone),
				tcell.NewEventMouse(3, 3, tcell.ButtonPrimary, tcell.ModNone),
				tcell.NewEventMouse(4, 3, tcell.ButtonPrimary, tcell.ModNone),
				tcell.NewEventMouse(4, 3, tcell.ButtonNone, tcell.ModNone),
			},
			want:       []string{"pointerDown", "pointerMove", "pointerMove", "pointerUp"},
			wantButton: input.ButtonPrimary,
		},
		{
			name: "right drag",
			steps: []*tcell.EventMouse{
				tcell.NewEventMouse(2, 3, tcell.ButtonSecondary, tcell.ModNone),
				tcell.NewEventMouse(5, 3, tcell.ButtonSecondary, tcell.ModNone),
				tcell.NewEventMouse(5, 3, tcell.ButtonNone, tcell.ModNone),
			},
			want:       []string{"pointerDown", "pointerMove", "pointerUp"},
			wantButton: input.ButtonSecondary,
		},
		{
			name: "hover",
			steps: []*tcell.EventMouse{
				tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone),
				tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone),
			},
			want:       []string{"pointerMove"},
			wantButton: input.ButtonPrimary,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Converter
			var got []*input.Event
			for _, ev := range tt.steps {
				got = append(got, c.Convert(ev)...)
			}
			if !slices.Equal(kinds(got), tt.want) {
				t.Fatalf("Convert() = %v, want %v", kinds(got), tt.want)
			}
			for _, ev := range got {
				if ev.Button != tt.wantButton {
					t.Errorf("%s.Button = %v, want %v", ev.Kind, ev.Button, tt.wantButton)
				}
			}
			if want := CellCenter(2, 3); got[0].Position != want {
				t.Errorf("Position = %v, want %v", got[0].Position, want)
			}
		})
	}
}

func TestConvertWheel(t *testing.T) {
	var c Converter
	got := c.Convert(tcell.NewEventMouse(1, 1, tcell.WheelDown, tcell.ModCtrl))
	if len(got) == 0 || got[0].Kind != input.Wheel {
		t.Fatalf("Convert(wheel) = %v, want wheel first", kinds(got))
	}
	if got[0].DeltaY != WheelStep || got[0].DeltaX != 0 {
		t.Errorf("wheel delta = (%v, %v), want (0, %v)", got[0].DeltaX, got[0].DeltaY, WheelStep)
	}
	if !got[0].Modifiers.Has(input.ModCtrl) {
		t.Errorf("wheel modifiers = %v, want control", got[0].Modifiers)
	}
	if got := wheel(tcell.WheelLeft | tcell.WheelUp); got != (graphics.Offset{X: -WheelStep, Y: -WheelStep}) {
		t.Errorf("wheel(left|up) = %v, want (-%v, -%v)", got, WheelStep, WheelStep)
	}
}
