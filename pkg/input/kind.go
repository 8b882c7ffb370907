package input

import "fmt"

// Kind identifies the handler an event is routed to.
type Kind uint8

const (
	KindNone Kind = iota
	KeyDown
	KeyUp
	TextInput
	PointerDown
	PointerUp
	PointerMove
	PointerOver
	PointerEnter
	PointerLeave
	DoubleClick
	TripleClick
	RightPointerDown
	RightPointerUp
	RightPointerMove
	ContextMenu
	Wheel
	DragEnter
	DragOver
	DragLeave
	Drop
	Cut
	Copy
	Paste
	Change
	kindCount
)

var kindNames = [kindCount]string{
	KindNone:         "none",
	KeyDown:          "keyDown",
	KeyUp:            "keyUp",
	TextInput:        "input",
	PointerDown:      "pointerDown",
	PointerUp:        "pointerUp",
	PointerMove:      "pointerMove",
	PointerOver:      "pointerOver",
	PointerEnter:     "pointerEnter",
	PointerLeave:     "pointerLeave",
	DoubleClick:      "doubleClick",
	TripleClick:      "tripleClick",
	RightPointerDown: "rightPointerDown",
	RightPointerUp:   "rightPointerUp",
	RightPointerMove: "rightPointerMove",
	ContextMenu:      "contextMenu",
	Wheel:            "wheel",
	DragEnter:        "dragEnter",
	DragOver:         "dragOver",
	DragLeave:        "dragLeave",
	Drop:             "drop",
	Cut:              "cut",
	Copy:             "copy",
	Paste:            "paste",
	Change:           "change",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindNone, false
}

// Kinds returns every routable kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KeyDown; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Focused reports whether events of this kind originate at the focused node
// rather than at the node under the pointer.
func (k Kind) Focused() bool {
	switch k {
	case KeyDown, KeyUp, TextInput, Cut, Copy, Paste, Change:
		return true
	}
	return false
}

// Pointer reports whether the kind carries a pointer position used for hit
// testing.
func (k Kind) Pointer() bool {
	return k != KindNone && k < kindCount && !k.Focused()
}
