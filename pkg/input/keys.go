package input

import (
	"slices"
	"strings"
)

// heldKeys survive the post-dispatch prune: they stay down until released.
var heldKeys = []Key{KeyMeta, KeyShift, KeyControl, KeySpace}

// DownKeys is the set of currently pressed keys used for chord matching.
type DownKeys struct {
	keys map[Key]struct{}
}

// NewDownKeys returns an empty set.
func NewDownKeys() *DownKeys {
	return &DownKeys{keys: map[Key]struct{}{}}
}

// Add marks k as pressed.
func (d *DownKeys) Add(k Key) {
	d.keys[Key(strings.ToLower(string(k)))] = struct{}{}
}

// Delete marks k as released.
func (d *DownKeys) Delete(k Key) {
	delete(d.keys, Key(strings.ToLower(string(k))))
}

// Has reports whether k is pressed.
func (d *DownKeys) Has(k Key) bool {
	_, ok := d.keys[k]
	return ok
}

// Len returns the number of pressed keys.
func (d *DownKeys) Len() int {
	return len(d.keys)
}

// Clear releases every key.
func (d *DownKeys) Clear() {
	clear(d.keys)
}

// Sorted returns the pressed keys in lexical order.
func (d *DownKeys) Sorted() []Key {
	out := make([]Key, 0, len(d.keys))
	for k := range d.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (d *DownKeys) String() string {
	keys := d.Sorted()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "+")
}

// Only reports whether k is the single pressed key.
func (d *DownKeys) Only(k Key) bool {
	return len(d.keys) == 1 && d.Has(Key(strings.ToLower(string(k))))
}

// Equals reports whether exactly keys are pressed.
func (d *DownKeys) Equals(keys ...Key) bool {
	if len(keys) != len(d.keys) {
		return false
	}
	for _, k := range keys {
		if !d.Has(k) {
			return false
		}
	}
	return true
}

// SyncModifiers makes the modifier keys in the set agree with mods. Space is
// tracked only while a space key-down is being processed.
func (d *DownKeys) SyncModifiers(mods Modifier, spaceDown bool) {
	d.toggle(KeyMeta, mods.Has(ModMeta))
	d.toggle(KeyControl, mods.Has(ModCtrl))
	d.toggle(KeyAlt, mods.Has(ModAlt))
	d.toggle(KeyShift, mods.Has(ModShift))
	d.toggle(KeySpace, spaceDown)
}

// SyncPointerModifiers is SyncModifiers for pointer events, which carry no
// space state.
func (d *DownKeys) SyncPointerModifiers(mods Modifier) {
	d.toggle(KeyMeta, mods.Has(ModMeta))
	d.toggle(KeyControl, mods.Has(ModCtrl))
	d.toggle(KeyAlt, mods.Has(ModAlt))
	d.toggle(KeyShift, mods.Has(ModShift))
}

func (d *DownKeys) toggle(k Key, down bool) {
	if down {
		d.keys[k] = struct{}{}
	} else {
		delete(d.keys, k)
	}
}

// Prune releases every key that is not a held modifier, so that holding meta
// after meta-c still lets meta-v match.
func (d *DownKeys) Prune() {
	for k := range d.keys {
		if !slices.Contains(heldKeys, k) {
			delete(d.keys, k)
		}
	}
}

// Manipulating reports whether a chord modifier (shift, control or meta) is held.
func (d *DownKeys) Manipulating() bool {
	return d.Has(KeyShift) || d.Has(KeyControl) || d.Has(KeyMeta)
}
