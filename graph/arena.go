package graph

import (
	"fmt"
	"iter"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// handle addresses an arena slot. gen is bumped every time the slot is
// freed, so a handle outlives its entity only as a miss, never as an alias.
// Generations start at 1, which keeps the zero handle invalid.
type handle struct {
	index uint32
	gen   uint32
}

func (h handle) valid() bool {
	return h.gen != 0
}

// NodeID is a stable handle to a node. The zero value refers to nothing.
type NodeID struct{ h handle }

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool { return !id.h.valid() }

func (id NodeID) String() string {
	return fmt.Sprintf("n%d.%d", id.h.index, id.h.gen)
}

// EdgeID is a stable handle to an edge. The zero value refers to nothing.
type EdgeID struct{ h handle }

// IsZero reports whether id is the zero EdgeID.
func (id EdgeID) IsZero() bool { return !id.h.valid() }

func (id EdgeID) String() string {
	return fmt.Sprintf("e%d.%d", id.h.index, id.h.gen)
}

type slot[T any] struct {
	gen  uint32
	item *T
}

// arena stores entities in slots that are recycled through a free stack.
// Iteration follows ascending slot index.
type arena[T any] struct {
	slots []slot[T]
	free  *arraystack.Stack
	live  int
}

func newArena[T any]() arena[T] {
	return arena[T]{free: arraystack.New()}
}

func (a *arena[T]) insert(item *T) handle {
	a.live++
	if v, ok := a.free.Pop(); ok {
		index := v.(uint32)
		a.slots[index].item = item
		return handle{index: index, gen: a.slots[index].gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 1, item: item})
	return handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if !h.valid() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.item == nil {
		return nil, false
	}
	return s.item, true
}

func (a *arena[T]) remove(h handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	s.item = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free.Push(h.index)
	a.live--
	return true
}

func (a *arena[T]) len() int {
	return a.live
}

func (a *arena[T]) all() iter.Seq2[handle, *T] {
	return func(yield func(handle, *T) bool) {
		for i, s := range a.slots {
			if s.item == nil {
				continue
			}
			if !yield(handle{index: uint32(i), gen: s.gen}, s.item) {
				return
			}
		}
	}
}
