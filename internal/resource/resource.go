// Package resource provides the ResourceBag container used by units, the
// city's global bag, and agent payloads.
package resource

import (
	"errors"
	"fmt"
)

// Sentinel errors callers are expected to check with errors.Is.
var (
	// ErrUnknownType is returned when a bag operation names a type that was
	// never registered with add_type.
	ErrUnknownType = errors.New("resource: unknown type")
	// ErrInsufficientAmount is returned by Remove when the bag holds less
	// than the requested amount.
	ErrInsufficientAmount = errors.New("resource: insufficient amount")
)

// entry holds the amount and capacity for one resource type within a bag.
// Insertion order is kept separately, in Bag.order.
type entry struct {
	name     string
	amount   uint32
	capacity uint32
}

// Bag is an ordered multiset of named resource quantities, each bounded by
// a per-type capacity. Insertion order of types is preserved so that
// iteration (Names, snapshot diffing in tests) is deterministic.
type Bag struct {
	order   []string
	entries map[string]*entry
}

// NewBag returns an empty bag.
func NewBag() *Bag {
	return &Bag{entries: make(map[string]*entry)}
}

// AddType declares a resource type in this bag with the given capacity.
// Calling AddType again for a name already present updates its capacity
// without touching the current amount (so a template bag's capacities can
// be copied onto a fresh instance before resources are added).
func (b *Bag) AddType(name string, capacity uint32) {
	if e, ok := b.entries[name]; ok {
		e.capacity = capacity
		return
	}
	b.order = append(b.order, name)
	b.entries[name] = &entry{name: name, capacity: capacity}
}

// Names returns the resource type names in insertion order.
func (b *Bag) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Has reports whether name was declared via AddType.
func (b *Bag) Has(name string) bool {
	_, ok := b.entries[name]
	return ok
}

// Capacity returns the capacity for name, or 0 if undeclared.
func (b *Bag) Capacity(name string) uint32 {
	if e, ok := b.entries[name]; ok {
		return e.capacity
	}
	return 0
}

// Get returns the current amount held for name, or 0 if undeclared.
func (b *Bag) Get(name string) uint32 {
	if e, ok := b.entries[name]; ok {
		return e.amount
	}
	return 0
}

// CanAdd reports whether n units of name could be added without the bag
// needing AddType called first; it does not check saturation, since Add
// always saturates rather than failing.
func (b *Bag) CanAdd(name string, n uint32) bool {
	return b.Has(name)
}

// CanRemove reports whether at least n units of name are currently held.
func (b *Bag) CanRemove(name string, n uint32) bool {
	e, ok := b.entries[name]
	if !ok {
		return false
	}
	return e.amount >= n
}

// Add adds n units of name, saturating at capacity. Returns the number of
// units actually added (may be less than n if capacity was reached).
// ErrUnknownType is returned if name was never declared.
func (b *Bag) Add(name string, n uint32) (uint32, error) {
	e, ok := b.entries[name]
	if !ok {
		return 0, fmt.Errorf("add %q: %w", name, ErrUnknownType)
	}
	room := e.capacity - e.amount
	added := n
	if added > room {
		added = room
	}
	e.amount += added
	return added, nil
}

// Remove removes n units of name. Fails with ErrInsufficientAmount if the
// bag holds less than n; the bag is left unmodified in that case.
func (b *Bag) Remove(name string, n uint32) error {
	e, ok := b.entries[name]
	if !ok {
		return fmt.Errorf("remove %q: %w", name, ErrUnknownType)
	}
	if e.amount < n {
		return fmt.Errorf("remove %q (%d < %d): %w", name, e.amount, n, ErrInsufficientAmount)
	}
	e.amount -= n
	return nil
}

// Snapshot returns a name→amount copy, used by tests to diff state across a
// rule firing and assert atomicity.
func (b *Bag) Snapshot() map[string]uint32 {
	out := make(map[string]uint32, len(b.entries))
	for name, e := range b.entries {
		out[name] = e.amount
	}
	return out
}

// Clone returns a deep copy of the bag, including declared types, amounts,
// and capacities, preserving insertion order.
func (b *Bag) Clone() *Bag {
	nb := NewBag()
	for _, name := range b.order {
		e := b.entries[name]
		nb.AddType(name, e.capacity)
		nb.entries[name].amount = e.amount
	}
	return nb
}
