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

import "fmt"

// Opcode identifies the semantic kind of a syntactic item. It selects the
// item's [Schema] entry, which drives both construction and the binary
// encoding of the item.
type Opcode uint8

// Item is a single node in a syntactic heap: an opcode, an ordered sequence
// of operand references to other items, and an optional raw data payload.
// Concrete kinds are pointer-backed structs embedding [Base], so comparing
// two Item values with == compares reference identity. That identity is
// load-bearing throughout this package: identity maps, reverse lookup and
// the "nothing changed" contracts of [CloneOnly] and [Substitute] all rely
// on it.
//
// An item is created detached and becomes permanent only through allocation,
// which assigns its heap and index exactly once.
type Item interface {
	// Opcode returns the opcode of this item.
	Opcode() Opcode

	// SetOpcode mutates the opcode of this item.
	SetOpcode(Opcode)

	// Len returns the number of operand slots. The slot count is fixed by
	// construction.
	Len() int

	// Operand returns the ith operand, which may be nil for an absent
	// child. It panics if i is out of range.
	Operand(i int) Item

	// Operands returns the underlying operand slice. Callers must not
	// mutate it directly; the copy-on-write algorithms in this package
	// alias operand slices between an item and its edited siblings.
	Operands() []Item

	// SetOperand mutates the ith operand slot in place. This is legal at
	// any time, including after allocation, and is how the allocator
	// back-patches migrated children.
	SetOperand(i int, child Item)

	// Data returns the raw data payload of this item, which may be nil.
	// The payload is treated as immutable.
	Data() []byte

	// Heap returns the heap this item is allocated to, or nil if the item
	// is detached.
	Heap() *Heap

	// Index returns this item's position within its heap, or -1 if the
	// item is detached.
	Index() int

	// Allocate assigns this item its residence. It is called exactly once,
	// by the owning heap; calling it on an item which is already resident
	// panics.
	Allocate(h *Heap, index int)

	// WithOperands returns a new detached item of the same kind, opcode
	// and data, but with the given operand slice. This is a structural
	// copy constructor, not a deep copy; it is the one customisation
	// point every concrete kind must provide.
	WithOperands(operands []Item) Item
}

// CrossReference marks item kinds whose operands denote "points to" rather
// than structural containment, such as a name resolution link. Operand edges
// of such items are never followed by [Ancestor]; without the exclusion an
// ancestor search would escape the syntactic tree into unrelated parts of
// the graph.
type CrossReference interface {
	Item

	// CrossReference is a marker method carrying no behaviour.
	CrossReference()
}

// Base supplies the storage and bookkeeping common to all item kinds.
// Concrete kinds embed a Base constructed with [NewBase] and add their own
// WithOperands method plus any typed accessors. A zero Base is not
// meaningful.
type Base struct {
	opcode   Opcode
	operands []Item
	data     []byte
	heap     *Heap
	index    int
}

// NewBase returns item storage for the given opcode, operand slice and data
// payload, detached from any heap. Both slices are adopted, not copied.
func NewBase(opcode Opcode, operands []Item, data []byte) Base {
	return Base{opcode: opcode, operands: operands, data: data, index: -1}
}

// Opcode returns the opcode of this item.
func (b *Base) Opcode() Opcode { return b.opcode }

// SetOpcode mutates the opcode of this item.
func (b *Base) SetOpcode(opcode Opcode) { b.opcode = opcode }

// Len returns the number of operand slots.
func (b *Base) Len() int { return len(b.operands) }

// Operand returns the ith operand, which may be nil.
func (b *Base) Operand(i int) Item { return b.operands[i] }

// Operands returns the underlying operand slice.
func (b *Base) Operands() []Item { return b.operands }

// SetOperand mutates the ith operand slot.
func (b *Base) SetOperand(i int, child Item) { b.operands[i] = child }

// Data returns the raw data payload, which may be nil.
func (b *Base) Data() []byte { return b.data }

// Heap returns the owning heap, or nil if detached.
func (b *Base) Heap() *Heap { return b.heap }

// Index returns the position within the owning heap, or -1 if detached.
func (b *Base) Index() int { return b.index }

// Allocate assigns this item to a heap. An item can only ever be allocated
// once; migrating it elsewhere requires cloning first.
func (b *Base) Allocate(h *Heap, index int) {
	if b.heap != nil {
		panic(fmt.Sprintf("heap: item already allocated (index %d)", b.index))
	}
	b.heap = h
	b.index = index
}
