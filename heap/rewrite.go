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

import "slices"

// Clone returns a fully detached deep copy of item and everything reachable
// from it. If two ancestors within the copied structure share a common
// descendant, the copy preserves that sharing: one clone of the descendant,
// referenced from both places. Aliasing is not preserved across separate
// Clone calls; for that, use [CloneWith] with a shared mapping. Cloning a
// cyclic structure does not terminate.
func Clone[T Item](item T) T {
	return CloneWith(item, make(map[Item]Item))
}

// CloneWith is [Clone] with a caller-supplied identity map from original to
// cloned items. Passing the same map to several calls preserves aliasing
// across them.
func CloneWith[T Item](item T, mapping map[Item]Item) T {
	cloned, ok := mapping[item]
	if !ok {
		operands := make([]Item, item.Len())
		for i := 0; i != item.Len(); i++ {
			if operand := item.Operand(i); operand != nil {
				operands[i] = CloneWith(operand, mapping)
			}
		}
		cloned = item.WithOperands(operands)
		mapping[item] = cloned
	}
	return cloned.(T)
}

// CloneOnly copies item only insofar as required: a subtree which contains
// no item of kind K and no descendant remapped through mapping is returned
// as the identical original reference, not a copy. Callers detect "nothing
// here" cheaply by comparing the result against the input with ==. Items of
// kind K are always copied, as is any item with a copied descendant, with
// sharing preserved through mapping as in [Clone].
func CloneOnly[K Item](item Item, mapping map[Item]Item) Item {
	if cloned, ok := mapping[item]; ok {
		return cloned
	}
	operands := item.Operands()
	nOperands := operands
	copied := false
	for i, operand := range operands {
		if operand == nil {
			continue
		}
		nOperand := CloneOnly[K](operand, mapping)
		if nOperand != operand && !copied {
			// A child changed; copy the operand array now so the
			// original item is preserved as is.
			nOperands = slices.Clone(operands)
			copied = true
		}
		nOperands[i] = nOperand
	}
	if _, gate := item.(K); copied || gate {
		cloned := item.WithOperands(nOperands)
		mapping[item] = cloned
		return cloned
	}
	return item
}

// Substitute returns an item in which every occurrence of from reachable
// from item has been replaced by to. When from does not occur, the exact
// original item reference is returned: callers distinguish "nothing
// changed" by identity comparison, never value comparison. Parents are
// materialised copy-on-write, only once a child actually changed, and an
// identity map preserves sharing among the newly created items. Everything
// newly created is allocated into the heap owning item before being handed
// back, so the result never mixes resident and detached items. It panics if
// item is detached and a substitution occurred.
func Substitute(item, from, to Item) Item {
	nItem := substitute(item, from, to, make(map[Item]Item))
	if nItem != item {
		h := item.Heap()
		if h == nil {
			panic("heap: substitute into detached item")
		}
		return h.Allocate(nItem)
	}
	return item
}

func substitute(item, from, to Item, mapping map[Item]Item) Item {
	if sItem, ok := mapping[item]; ok {
		// Previously substituted; returning the recorded item preserves
		// the aliasing structure of the ancestors.
		return sItem
	}
	if item == from {
		return to
	}
	nItem := item
	children := item.Operands()
	// nChildren aliases children until a child actually changes; a copied
	// array is the signal that a new parent must be materialised.
	nChildren := children
	copied := false
	for i, child := range children {
		if child == nil {
			continue
		}
		nChild := substitute(child, from, to, mapping)
		if nChild != child && !copied {
			nChildren = slices.Clone(children)
			copied = true
		}
		nChildren[i] = nChild
	}
	if copied {
		nItem = item.WithOperands(nChildren)
	}
	mapping[item] = nItem
	return nItem
}
