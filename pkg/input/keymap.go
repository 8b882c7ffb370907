package input

import "runtime"

// Platform selects a key mapping table.
type Platform uint8

const (
	PlatformOther Platform = iota
	PlatformMac
)

func (p Platform) String() string {
	if p == PlatformMac {
		return "mac"
	}
	return "other"
}

// HostPlatform returns the platform of the running process.
func HostPlatform() Platform {
	if runtime.GOOS == "darwin" {
		return PlatformMac
	}
	return PlatformOther
}

// Shortcut names a logical chord such as "meta-c" or "undo".
type Shortcut string

const (
	ShortcutSelectAll Shortcut = "meta-a"
	ShortcutBold      Shortcut = "meta-b"
	ShortcutCopy      Shortcut = "meta-c"
	ShortcutCut       Shortcut = "meta-x"
	ShortcutPaste     Shortcut = "meta-v"
	ShortcutFind      Shortcut = "meta-k"
	ShortcutOpen      Shortcut = "meta-o"
	ShortcutLink      Shortcut = "meta-l"
	ShortcutSubmit    Shortcut = "meta-enter"
	ShortcutZoomIn    Shortcut = "meta-plus"
	ShortcutZoomOut   Shortcut = "meta-minus"
	ShortcutZoomReset Shortcut = "meta-0"
	ShortcutHome      Shortcut = "home"
	ShortcutEnd       Shortcut = "end"
	ShortcutShiftHome Shortcut = "shift-home"
	ShortcutShiftEnd  Shortcut = "shift-end"
	ShortcutUndo      Shortcut = "undo"
	ShortcutRedo      Shortcut = "redo"
)

// chord is one set of keys that must be exactly the pressed set.
type chord []Key

// Keymap maps logical shortcuts to one or more physical chords.
type Keymap struct {
	Platform Platform
	bindings map[Shortcut][]chord
}

func bind(keys ...Key) []chord { return []chord{keys} }

func otherBindings() map[Shortcut][]chord {
	return map[Shortcut][]chord{
		ShortcutSelectAll: bind(KeyControl, "a"),
		ShortcutBold:      bind(KeyControl, "b"),
		ShortcutCopy:      bind(KeyControl, "c"),
		ShortcutCut:       bind(KeyControl, "x"),
		ShortcutPaste:     bind(KeyControl, "v"),
		ShortcutFind:      bind(KeyControl, "k"),
		ShortcutOpen:      bind(KeyControl, "o"),
		ShortcutLink:      bind(KeyControl, "l"),
		ShortcutSubmit:    bind(KeyControl, KeyEnter),
		ShortcutZoomIn:    bind(KeyControl, "="),
		ShortcutZoomOut:   bind(KeyControl, "-"),
		ShortcutZoomReset: bind(KeyControl, "0"),
		ShortcutHome:      bind(KeyHome),
		ShortcutEnd:       bind(KeyEnd),
		ShortcutShiftHome: bind(KeyHome, KeyShift),
		ShortcutShiftEnd:  bind(KeyEnd, KeyShift),
		ShortcutUndo:      bind(KeyControl, "z"),
		ShortcutRedo:      bind(KeyControl, KeyShift, "z"),
	}
}

func macBindings() map[Shortcut][]chord {
	return map[Shortcut][]chord{
		ShortcutSelectAll: bind(KeyMeta, "a"),
		ShortcutBold:      bind(KeyMeta, "b"),
		ShortcutCopy:      bind(KeyMeta, "c"),
		ShortcutCut:       bind(KeyMeta, "x"),
		ShortcutPaste:     bind(KeyMeta, "v"),
		ShortcutFind:      bind(KeyMeta, "k"),
		ShortcutOpen:      bind(KeyMeta, "o"),
		ShortcutLink:      bind(KeyMeta, "l"),
		ShortcutSubmit:    bind(KeyMeta, KeyEnter),
		ShortcutZoomIn:    bind(KeyMeta, "="),
		ShortcutZoomOut:   bind(KeyMeta, "-"),
		ShortcutZoomReset: bind(KeyMeta, "0"),
		ShortcutHome:      {{KeyControl, "a"}, {KeyMeta, KeyArrowLeft}},
		ShortcutEnd:       {{KeyControl, "e"}, {KeyMeta, KeyArrowRight}},
		ShortcutShiftHome: {{KeyControl, KeyShift, "a"}, {KeyMeta, KeyShift, KeyArrowLeft}},
		ShortcutShiftEnd:  {{KeyControl, KeyShift, "e"}, {KeyMeta, KeyShift, KeyArrowRight}},
		ShortcutUndo:      bind(KeyMeta, "z"),
		ShortcutRedo:      bind(KeyMeta, KeyShift, "z"),
	}
}

// NewKeymap returns the default mapping for p.
func NewKeymap(p Platform) *Keymap {
	m := &Keymap{Platform: p}
	if p == PlatformMac {
		m.bindings = macBindings()
	} else {
		m.bindings = otherBindings()
	}
	return m
}

// Bind replaces the chords of s. Each chord is a list of keys.
func (m *Keymap) Bind(s Shortcut, chords ...[]Key) {
	cs := make([]chord, len(chords))
	for i, c := range chords {
		cs[i] = chord(c)
	}
	m.bindings[s] = cs
}

// Matches reports whether the pressed set equals any chord bound to s.
func (m *Keymap) Matches(s Shortcut, down *DownKeys) bool {
	for _, c := range m.bindings[s] {
		if down.Equals(c...) {
			return true
		}
	}
	return false
}

// Match returns the first shortcut whose chord equals the pressed set.
func (m *Keymap) Match(down *DownKeys) (Shortcut, bool) {
	for s, chords := range m.bindings {
		for _, c := range chords {
			if down.Equals(c...) {
				return s, true
			}
		}
	}
	return "", false
}

// MetaKey is the key used for "meta" shortcuts on this platform.
func (m *Keymap) MetaKey() Key {
	if m.Platform == PlatformMac {
		return KeyMeta
	}
	return KeyControl
}

// IsMetaClick reports whether ev is a platform meta-click (command on mac,
// control elsewhere).
func (m *Keymap) IsMetaClick(ev *Event) bool {
	if m.Platform == PlatformMac {
		return ev.Meta()
	}
	return ev.Ctrl()
}

// IsRightClick reports whether ev is a secondary click. On mac a
// control-click counts as a right click.
func (m *Keymap) IsRightClick(ev *Event) bool {
	return ev.Button == ButtonSecondary || (m.Platform == PlatformMac && ev.Ctrl())
}
