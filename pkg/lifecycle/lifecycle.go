// Package lifecycle provides reference-counted ownership for long-lived objects.
//
// An object embeds Base and is kept alive by its inbound referents: strong
// edges registered with RegisterReferent. When the last referent deregisters,
// the object's cleanup hooks run exactly once and the object becomes dead.
// Any later call that validates the object panics with an
// errors.UseAfterDestroyError naming both the call site and the site that
// destroyed it.
//
// Back-references are held with Weak, which never counts toward ownership
// and yields nothing once its target is no longer alive.
package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-drift/plane/pkg/errors"
)

// LeakName is the referent name used by Leak.
const LeakName = "~~leak~~"

// Object is implemented by every type embedding Base.
type Object interface {
	Key() string
	Alive() bool
	RegisterReferent(owner any, name string)
	DeregisterReferent(owner any, name string)
	OnCleanup(fn func()) func()
	Validate(op string)
}

type phase uint8

const (
	phaseAlive phase = iota
	phaseDying
	phaseDead
)

type referent struct {
	owner any
	name  string
}

// Base is the embeddable lifecycle core. The zero value is usable; call Init
// from the embedding type's constructor to record a type name for diagnostics
// and live-object statistics.
type Base struct {
	key         string
	typeName    string
	referents   []referent
	cleanups    []func()
	phase       phase
	destroyedAt string
}

// Init records self's dynamic type and counts the object as live.
func (b *Base) Init(self any) {
	b.typeName = fmt.Sprintf("%T", self)
	track(b.typeName, 1)
}

// Key returns the object's opaque identity.
func (b *Base) Key() string {
	if b.key == "" {
		b.key = uuid.NewString()
	}
	return b.key
}

// TypeName returns the name recorded by Init.
func (b *Base) TypeName() string {
	if b.typeName == "" {
		return "object"
	}
	return b.typeName
}

// Alive reports whether the object has not started destruction.
func (b *Base) Alive() bool {
	return b.phase == phaseAlive
}

// Destroyed reports whether cleanup has completed.
func (b *Base) Destroyed() bool {
	return b.phase == phaseDead
}

// Validate panics with *errors.UseAfterDestroyError if the object is dead.
// Cleanup hooks may still use the object while it is dying.
func (b *Base) Validate(op string) {
	if b.phase != phaseDead {
		return
	}
	panic(&errors.UseAfterDestroyError{
		Type:        b.TypeName(),
		Key:         b.Key(),
		Op:          op,
		CallSite:    errors.CaptureStack(),
		DestroyedAt: b.destroyedAt,
	})
}

// RegisterReferent adds a strong inbound edge from owner under name.
func (b *Base) RegisterReferent(owner any, name string) {
	b.Validate("RegisterReferent")
	if b.phase == phaseDying {
		panic(&errors.InvalidStateError{Op: "RegisterReferent", Reason: "object is being destroyed"})
	}
	b.referents = append(b.referents, referent{owner: owner, name: name})
}

// DeregisterReferent removes the edge from owner under name. Removing the
// last edge destroys the object synchronously.
func (b *Base) DeregisterReferent(owner any, name string) {
	if b.phase != phaseAlive {
		return
	}
	idx := -1
	for i, r := range b.referents {
		if r.owner == owner && r.name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(&errors.InvalidStateError{
			Op:     "DeregisterReferent",
			Reason: fmt.Sprintf("%s is not referenced by %T as %q", b.TypeName(), owner, name),
		})
	}
	b.referents = append(b.referents[:idx], b.referents[idx+1:]...)
	if len(b.referents) == 0 {
		b.destroy()
	}
}

// ReferentCount returns the number of inbound strong edges.
func (b *Base) ReferentCount() int {
	return len(b.referents)
}

// Referenced reports whether owner holds an edge under name.
func (b *Base) Referenced(owner any, name string) bool {
	for _, r := range b.referents {
		if r.owner == owner && r.name == name {
			return true
		}
	}
	return false
}

// Leak keeps the object alive for the lifetime of the process.
func (b *Base) Leak() {
	b.RegisterReferent(b, LeakName)
}

// Destroy tears the object down regardless of its referents. It is meant for
// roots that nothing owns; owned objects are destroyed by their owners.
func (b *Base) Destroy() {
	if b.phase != phaseAlive {
		return
	}
	b.referents = nil
	b.destroy()
}

// OnCleanup registers fn to run when the object is destroyed. Hooks run in
// reverse registration order. The returned function unregisters fn. On an
// object that is already dying or dead, fn runs immediately.
func (b *Base) OnCleanup(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	if b.phase != phaseAlive {
		fn()
		return func() {}
	}
	index := len(b.cleanups)
	b.cleanups = append(b.cleanups, fn)
	return func() {
		if index < len(b.cleanups) {
			b.cleanups[index] = nil
		}
	}
}

func (b *Base) destroy() {
	b.phase = phaseDying
	b.destroyedAt = errors.CaptureStack()
	for i := len(b.cleanups) - 1; i >= 0; i-- {
		if fn := b.cleanups[i]; fn != nil {
			b.cleanups[i] = nil
			fn()
		}
	}
	b.cleanups = nil
	b.phase = phaseDead
	if b.typeName != "" {
		track(b.typeName, -1)
	}
}

// Manage registers owner as a strong referent of target under name and
// releases that edge when owner is destroyed.
func Manage(owner, target Object, name string) {
	target.RegisterReferent(owner, name)
	owner.OnCleanup(func() {
		target.DeregisterReferent(owner, name)
	})
}

// Release drops the edge owner holds on target under name.
func Release(owner, target Object, name string) {
	target.DeregisterReferent(owner, name)
}
