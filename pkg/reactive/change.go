package reactive

// Origin identifies who caused a change.
type Origin uint8

const (
	// OriginUnknown is the default origin.
	OriginUnknown Origin = iota
	// OriginUser marks changes caused by direct user input.
	OriginUser
	// OriginDatabase marks changes applied from storage.
	OriginDatabase
	// OriginSystem marks changes made by the runtime itself (layout, focus).
	OriginSystem
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginDatabase:
		return "database"
	case OriginSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Change is the metadata delivered with every notification. A subscriber that
// also writes the container compares Tag with its own tag to skip changes it
// caused itself.
type Change struct {
	Origin Origin
	// Tag identifies the writer. Any comparable value works.
	Tag any
	// Tx is the transaction id the change belongs to, if any.
	Tx string
	// Force notifies even when the new value equals the old one.
	Force bool
}

// From reports whether the change was tagged by tag.
func (c Change) From(tag any) bool {
	return tag != nil && c.Tag == tag
}

func changeArg(ch []Change) Change {
	if len(ch) > 0 {
		return ch[0]
	}
	return Change{}
}

// Disposer removes a subscription. Calling it more than once is harmless.
type Disposer func()

// Source is anything that can announce changes. It is how derived containers
// depend on heterogeneous inputs.
type Source interface {
	Watch(fn func(Change)) Disposer
}

// Reader is the read side of a value container.
type Reader[T any] interface {
	Source
	Value() T
	Subscribe(fn func(T, Change)) Disposer
}

type subscription[F any] struct {
	fn     F
	active bool
}

// subscribers is an ordered listener list that tolerates mutation while it is
// being iterated.
type subscribers[F any] struct {
	list []*subscription[F]
}

func (s *subscribers[F]) add(fn F) Disposer {
	sub := &subscription[F]{fn: fn, active: true}
	s.list = append(s.list, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, other := range s.list {
			if other == sub {
				s.list = append(s.list[:i:i], s.list[i+1:]...)
				break
			}
		}
	}
}

func (s *subscribers[F]) each(call func(F)) {
	snapshot := s.list
	for _, sub := range snapshot {
		if sub.active {
			call(sub.fn)
		}
	}
}

func (s *subscribers[F]) len() int {
	return len(s.list)
}

func (s *subscribers[F]) clear() {
	for _, sub := range s.list {
		sub.active = false
	}
	s.list = nil
}
