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

package heap_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/heap/item"
)

// widget is a foreign kind with no String method, exercising the generic
// rendering fallback and the external extension point.
type widget struct {
	heap.Base
}

func newWidget(operands ...heap.Item) *widget {
	return &widget{heap.NewBase(0x40, operands, []byte{0xab})}
}

func (w *widget) WithOperands(operands []heap.Item) heap.Item {
	return &widget{heap.NewBase(w.Opcode(), operands, w.Data())}
}

func TestEmptyHeap(t *testing.T) {
	t.Parallel()
	h := heap.New()
	assert.Equal(t, 0, h.Len())
	assert.Panics(t, func() { h.Root() })
}

func TestSetRoot(t *testing.T) {
	t.Parallel()
	h := heap.New()
	root := h.SetRoot(item.NewPair(item.NewIdentifier("x"), item.NewBool(true)))

	require.Equal(t, 3, h.Len())
	assert.Same(t, root, h.Root())
	assert.Same(t, h, root.Heap())
	assert.Equal(t, 0, root.Index())

	// Re-rooting onto a resident item must not copy it again.
	child := h.Get(1)
	assert.Same(t, child, h.SetRoot(child))
	assert.Same(t, child, h.Root())
	assert.Equal(t, 3, h.Len())
}

func TestIndexOf(t *testing.T) {
	t.Parallel()
	h := heap.New()
	root := h.SetRoot(item.NewTuple(item.NewBool(true), item.NewBool(false)))

	assert.Equal(t, 0, h.IndexOf(root))
	for i := 0; i != h.Len(); i++ {
		assert.Equal(t, i, h.IndexOf(h.Get(i)))
	}
	assert.Panics(t, func() { h.IndexOf(item.NewBool(true)) })
}

func TestFromItems(t *testing.T) {
	t.Parallel()
	x := item.NewIdentifier("x")
	y := item.NewIdentifier("y")
	p := item.NewPair(nil, nil)
	p.SetOperand(0, x)
	p.SetOperand(1, y)
	h := heap.FromItems([]heap.Item{p, x, y}, 0)

	require.Equal(t, 3, h.Len())
	assert.Same(t, p, h.Root())
	assert.Same(t, x, h.Get(1))
	assert.Equal(t, 2, y.Index())
	assert.Same(t, h, y.Heap())

	// Adopting a resident item a second time is a programming error.
	assert.Panics(t, func() { heap.FromItems([]heap.Item{x}, 0) })
}

func TestNewFrom(t *testing.T) {
	t.Parallel()
	src := heap.New()
	x := item.NewIdentifier("x")
	p := item.NewPair(x, item.NewBool(true))
	root := src.SetRoot(item.NewTuple(p, p)).(*item.Tuple)

	copied := heap.NewFrom(src)
	require.Equal(t, src.Len(), copied.Len())
	for i := 0; i != src.Len(); i++ {
		assert.Equal(t, src.Get(i).Opcode(), copied.Get(i).Opcode())
		assert.NotSame(t, src.Get(i), copied.Get(i))
		assert.Same(t, copied, copied.Get(i).Heap())
	}
	croot, ok := copied.Root().(*item.Tuple)
	require.True(t, ok)
	assert.Equal(t, root.Index(), croot.Index())
	// Aliasing in the source survives the copy.
	assert.Same(t, croot.Operand(0), croot.Operand(1))
	// Mutating the copy leaves the source untouched.
	croot.Operand(0).(*item.Pair).SetOperand(0, copied.Allocate(item.NewIdentifier("y")))
	srcPair := src.Root().(*item.Tuple).Operand(0).(*item.Pair)
	assert.Equal(t, "x", srcPair.First().(*item.Identifier).Value())
}

func TestAll(t *testing.T) {
	t.Parallel()
	h := heap.New()
	h.SetRoot(item.NewTuple(
		item.NewPair(item.NewIdentifier("x"), item.NewBool(true)),
		item.NewPair(item.NewIdentifier("y"), item.NewBool(false)),
	))

	ids := heap.All[*item.Identifier](h)
	require.Len(t, ids, 2)
	assert.Equal(t, "x", ids[0].Value())
	assert.Equal(t, "y", ids[1].Value())
	assert.Empty(t, heap.All[*item.Span](h))
}

func TestParent(t *testing.T) {
	t.Parallel()
	h := heap.New()
	x := item.NewIdentifier("x")
	pa := item.NewPair(x, item.NewNull())
	pb := item.NewPair(x, item.NewNull())
	h.SetRoot(item.NewTuple(pa, pb))
	rx := h.Get(2) // resident copy of x

	parent, ok := heap.Parent[*item.Pair](h, rx)
	require.True(t, ok)
	// Lowest index wins when several parents hold the child.
	assert.Equal(t, 1, parent.Index())

	_, ok = heap.Parent[*item.Tuple](h, rx)
	assert.False(t, ok)
}

func TestParentSeesCrossReference(t *testing.T) {
	t.Parallel()
	h := heap.New()
	x := h.Allocate(item.NewIdentifier("x"))
	ref := h.Allocate(item.NewRef(x))

	parent, ok := heap.Parent[*item.Ref](h, x)
	require.True(t, ok)
	assert.Same(t, ref, parent)
}

func TestAncestor(t *testing.T) {
	t.Parallel()
	h := heap.New()
	root := h.SetRoot(item.NewTuple(
		item.NewPair(item.NewIdentifier("x"), item.NewBool(true)),
	)).(*item.Tuple)
	x := h.Get(2)

	ancestor, ok := heap.Ancestor[*item.Tuple](h, x)
	require.True(t, ok)
	assert.Same(t, root, ancestor)

	// An item of the requested kind is its own ancestor.
	self, ok := heap.Ancestor[*item.Identifier](h, x)
	require.True(t, ok)
	assert.Same(t, x, self)
}

func TestAncestorIgnoresCrossReference(t *testing.T) {
	t.Parallel()
	h := heap.New()
	// The only route from x up to the tuple passes through a reference,
	// which denotes "points to" rather than containment.
	x := h.Allocate(item.NewIdentifier("x"))
	h.SetRoot(item.NewTuple(item.NewRef(x)))

	_, ok := heap.Ancestor[*item.Tuple](h, x)
	assert.False(t, ok)
	_, ok = heap.Ancestor[*item.Ref](h, x)
	assert.False(t, ok)
}

func TestPrint(t *testing.T) {
	t.Parallel()
	h := heap.New()
	h.SetRoot(item.NewPair(item.NewIdentifier("x"), item.NewBool(true)))

	var sb strings.Builder
	require.NoError(t, h.Print(&sb))
	assert.Equal(t, "// #0 pair(#1,#2)\n// #1 x\n// #2 true\n", sb.String())
}

func TestPrintAlignsIndices(t *testing.T) {
	t.Parallel()
	h := heap.New()
	operands := make([]heap.Item, 10)
	for i := range operands {
		operands[i] = item.NewInt64(int64(i))
	}
	h.SetRoot(item.NewTuple(operands...))

	var sb strings.Builder
	require.NoError(t, h.Print(&sb))
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "//  #0 tuple(#1,#2,#3,#4,#5,#6,#7,#8,#9,#10)", lines[0])
	assert.Equal(t, "//  #9 8", lines[9])
	assert.Equal(t, "// #10 9", lines[10])
}

func TestPrintForeignKind(t *testing.T) {
	t.Parallel()
	h := heap.New()
	h.SetRoot(newWidget(item.NewBool(true)))

	var sb strings.Builder
	require.NoError(t, h.Print(&sb))
	assert.Equal(t, "// #0 0x40(#1)[ab]\n// #1 true\n", sb.String())
}
