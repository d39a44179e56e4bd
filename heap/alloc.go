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

// Allocator migrates item subgraphs into a target heap, copying each source
// item at most once. The at-most-once guarantee is carried by an identity
// map from source item to resident item, so a child referenced from several
// places in the subgraph ends up as a single resident copy. The map lives
// for the lifetime of the allocator: reusing one allocator across multiple
// roots preserves sharing between them, which is how heap-to-heap copies
// are built.
type Allocator struct {
	heap    *Heap
	mapping map[Item]Item
}

// NewAllocator returns an allocator targeting h with an empty identity map.
func NewAllocator(h *Heap) *Allocator {
	return &Allocator{heap: h, mapping: make(map[Item]Item)}
}

// Allocate returns the item in the target heap corresponding to item. An
// item previously processed by this allocator resolves through the identity
// map; an item already resident in the target heap is returned unchanged.
// Otherwise the item is shallow-cloned with empty operand slots, appended
// to the heap, recorded in the map, and only then are its children
// allocated and back-patched into the clone. Appending the parent before
// its children keeps parent indices below child indices and makes the
// recursion safe for shared children, though not for true cycles.
func (a *Allocator) Allocate(item Item) Item {
	if resident, ok := a.mapping[item]; ok {
		return resident
	}
	if item.Heap() == a.heap {
		// Already allocated to this heap, hence nothing to do.
		return item
	}
	index := len(a.heap.items)
	resident := item.WithOperands(make([]Item, item.Len()))
	a.heap.items = append(a.heap.items, resident)
	resident.Allocate(a.heap, index)
	a.mapping[item] = resident
	for i := 0; i != item.Len(); i++ {
		child := item.Operand(i)
		if child != nil {
			child = a.Allocate(child)
		}
		resident.SetOperand(i, child)
	}
	return resident
}
