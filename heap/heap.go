// Copyright 2011 The Whiley Project Developers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package heap

// Heap is the arena holding all syntactic items of one compilation unit.
// The item sequence is append-only: indices are stable for the lifetime of
// the heap and never reused, which makes them the addressing scheme of the
// binary format as well. Items unreachable from the root may accumulate
// after structural edits; that is harmless for consumers which start from
// the root.
type Heap struct {
	items []Item
	root  int
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{}
}

// NewFrom returns a deep copy of src: a heap which is structurally identical
// but whose items are entirely distinct objects, suitable for independent
// mutation. Sharing within src is preserved in the copy; a single identity
// map spans the entire walk. It panics if src is empty.
func NewFrom(src *Heap) *Heap {
	h := New()
	h.root = src.Root().Index()
	alloc := NewAllocator(h)
	for i := 0; i != src.Len(); i++ {
		alloc.Allocate(CloneWith(src.Get(i), alloc.mapping))
	}
	return h
}

// FromItems adopts a table of freshly constructed, detached items as a
// complete heap with the given root index. Item i is allocated at index i,
// so operand references between the items must already be internal to the
// table. This is the resolution endpoint of the binary decoder. It panics
// if any item is already resident in a heap.
func FromItems(items []Item, root int) *Heap {
	h := New()
	for i, item := range items {
		item.Allocate(h, i)
		h.items = append(h.items, item)
	}
	h.root = root
	return h
}

// Len returns the number of items allocated to this heap.
func (h *Heap) Len() int {
	return len(h.items)
}

// Get returns the item at the given index. It panics if index is out of
// range.
func (h *Heap) Get(index int) Item {
	return h.items[index]
}

// IndexOf returns the index of the given item within this heap, located by
// reference identity rather than structural equality. It panics if the item
// is not present.
func (h *Heap) IndexOf(item Item) int {
	for i := 0; i != len(h.items); i++ {
		if h.items[i] == item {
			return i
		}
	}
	panic("heap: item not allocated to this heap")
}

// Root returns the distinguished root item. It panics if the heap is empty.
func (h *Heap) Root() Item {
	return h.items[h.root]
}

// SetRoot allocates item into this heap, if it is not already resident, and
// marks it as the root. The heap-resident item is returned.
func (h *Heap) SetRoot(item Item) Item {
	resident := h.Allocate(item)
	h.root = resident.Index()
	return resident
}

// Allocate migrates item, and everything it transitively references, into
// this heap and returns the heap-resident item: item itself when it was
// already resident, otherwise a copy. Each Allocate call uses a fresh
// identity map; to preserve sharing across several roots use one
// [Allocator] for all of them.
func (h *Heap) Allocate(item Item) Item {
	return NewAllocator(h).Allocate(item)
}

// All returns every item in h whose concrete kind is T, in ascending index
// order. The search is a full linear scan; heaps are built once and queried
// afterwards, so no kind index is maintained.
func All[T Item](h *Heap) []T {
	var matches []T
	for _, item := range h.items {
		if match, ok := item.(T); ok {
			matches = append(matches, match)
		}
	}
	return matches
}

// Parent returns the first item of kind T holding child in one of its
// operand slots, scanning in ascending index order. "First" means lowest
// index, not nearest: the search makes no uniqueness guarantee when several
// parents exist. Absence of a match is a normal outcome, reported through
// the boolean.
func Parent[T Item](h *Heap, child Item) (T, bool) {
	for _, item := range h.items {
		parent, ok := item.(T)
		if !ok {
			continue
		}
		for _, operand := range parent.Operands() {
			if operand == child {
				return parent, true
			}
		}
	}
	var zero T
	return zero, false
}

// Ancestor returns the first item of kind T which contains child, directly
// or transitively. If child is itself a T it is its own ancestor and is
// returned immediately. Operand edges of kinds marked [CrossReference]
// denote "points to" rather than containment and are never followed
// upwards.
func Ancestor[T Item](h *Heap, child Item) (T, bool) {
	if match, ok := child.(T); ok {
		return match, true
	}
	for _, item := range h.items {
		if _, cross := item.(CrossReference); cross {
			continue
		}
		for _, operand := range item.Operands() {
			if operand == child {
				if match, ok := Ancestor[T](h, item); ok {
					return match, true
				}
				break
			}
		}
	}
	var zero T
	return zero, false
}
