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

package heapio_test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/heap/item"
	"github.com/utting/WhileyCompilerCollection/heapio"
)

// node is a schema-agnostic kind used to exercise every operand-count and
// data-size class, not just the ones the builtin vocabulary happens to use.
type node struct {
	heap.Base
}

func newNode(opcode heap.Opcode, operands []heap.Item, data []byte) heap.Item {
	return &node{heap.NewBase(opcode, operands, data)}
}

func (n *node) WithOperands(operands []heap.Item) heap.Item {
	return newNode(n.Opcode(), operands, n.Data())
}

// testFormat pairs opcode k with operand class k for the fixed classes,
// plus dedicated opcodes for variable operands and each data class.
var testFormat = heapio.Format{
	Magic: []byte{0xfe, 0xed},
	Major: 3,
	Minor: 1,
	Schemas: func() []heap.Schema {
		classes := []struct {
			operands int8
			data     int8
		}{
			{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0},
			{heap.Many, 0}, {0, 1}, {0, 2}, {0, heap.Many},
		}
		schemas := make([]heap.Schema, len(classes))
		for op, class := range classes {
			schemas[op] = heap.Schema{
				Operands:  class.operands,
				Data:      class.data,
				Mnemonic:  fmt.Sprintf("n%d", op),
				Construct: newNode,
			}
		}
		return schemas
	}(),
}

// flatten reduces a heap to its index-addressed structure, which is what
// the round-trip law promises to preserve.
type flatItem struct {
	Opcode   heap.Opcode
	Operands []int
	Data     []byte
}

func flatten(t *testing.T, h *heap.Heap) []flatItem {
	flat := make([]flatItem, h.Len())
	for i := range flat {
		it := h.Get(i)
		operands := make([]int, it.Len())
		for j := range operands {
			operand := it.Operand(j)
			require.NotNil(t, operand)
			operands[j] = operand.Index()
		}
		flat[i] = flatItem{Opcode: it.Opcode(), Operands: operands, Data: it.Data()}
	}
	return flat
}

func roundTrip(t *testing.T, h *heap.Heap, format heapio.Format) *heap.Heap {
	var buf bytes.Buffer
	require.NoError(t, heapio.NewWriter(&buf, format).Write(h))
	decoded, err := heapio.NewReader(&buf, format).Read()
	require.NoError(t, err)

	assert.Equal(t, h.Root().Index(), decoded.Root().Index())
	if diff := cmp.Diff(flatten(t, h), flatten(t, decoded), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("structure changed across round trip (-want +got):\n%s", diff)
	}
	return decoded
}

func TestRoundTripOperandClasses(t *testing.T) {
	t.Parallel()
	// One case per fixed operand class, plus several variable lengths.
	counts := []struct {
		opcode heap.Opcode
		n      int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7}, {8, 8},
		{9, 0}, {9, 1}, {9, 20},
	}
	for _, tt := range counts {
		t.Run(fmt.Sprintf("op%d-n%d", tt.opcode, tt.n), func(t *testing.T) {
			t.Parallel()
			// Root first: operand references on the wire point forwards.
			root := newNode(tt.opcode, make([]heap.Item, tt.n), nil)
			items := []heap.Item{root}
			for i := 0; i != tt.n; i++ {
				leaf := newNode(0, nil, nil)
				root.SetOperand(i, leaf)
				items = append(items, leaf)
			}
			roundTrip(t, heap.FromItems(items, 0), testFormat)
		})
	}
}

func TestRoundTripDataClasses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		opcode heap.Opcode
		data   []byte
	}{
		{10, []byte{0x00}},
		{10, []byte{0xff}},
		{11, []byte{0xde, 0xad}},
		{12, nil},
		{12, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}},
		{12, bytes.Repeat([]byte{0xa5}, 300)},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			t.Parallel()
			h := heap.FromItems([]heap.Item{newNode(tt.opcode, nil, tt.data)}, 0)
			roundTrip(t, h, testFormat)
		})
	}
}

func TestRoundTripSharing(t *testing.T) {
	t.Parallel()
	h := heap.New()
	x := item.NewIdentifier("x")
	h.SetRoot(item.NewTuple(item.NewPair(x, x), x))
	require.Equal(t, 3, h.Len())

	decoded := roundTrip(t, h, item.Format)
	droot := decoded.Root().(*item.Tuple)
	pair := droot.Operand(0).(*item.Pair)
	assert.Same(t, pair.First(), pair.Second())
	assert.Same(t, pair.First(), droot.Operand(1))
}

func TestRoundTripCrossReferenceCycle(t *testing.T) {
	t.Parallel()
	// A reference pointing back at the root closes a cycle on the wire;
	// memoised construction must resolve it without recursing forever.
	root := item.NewTuple(nil, nil)
	x := item.NewIdentifier("x")
	ref := item.NewRef(root)
	root.SetOperand(0, x)
	root.SetOperand(1, ref)
	h := heap.FromItems([]heap.Item{root, x, ref}, 0)

	decoded := roundTrip(t, h, item.Format)
	droot := decoded.Root().(*item.Tuple)
	dref := droot.Operand(1).(*item.Ref)
	assert.Same(t, heap.Item(droot), dref.Target())
}

func TestRoundTripUnreachableItems(t *testing.T) {
	t.Parallel()
	// Items unreachable from the root are still part of the heap and must
	// survive the trip.
	h := heap.New()
	h.Allocate(item.NewIdentifier("orphan"))
	h.SetRoot(item.NewBool(true))

	decoded := roundTrip(t, h, item.Format)
	assert.Equal(t, 2, decoded.Len())
	assert.Equal(t, 1, decoded.Root().Index())
}

func TestRoundTripVocabulary(t *testing.T) {
	t.Parallel()
	h := heap.New()
	decl := item.NewPair(
		item.NewName(item.NewIdentifier("std"), item.NewIdentifier("max")),
		item.NewTuple(item.NewInt64(-42), item.NewUTF8("doc"), item.NewByte(0x7f), item.NewNull()),
	)
	h.SetRoot(item.NewTuple(decl, item.NewSpan(decl, 0, 17)))

	decoded := roundTrip(t, h, item.Format)
	droot := decoded.Root().(*item.Tuple)
	span := droot.Operand(1).(*item.Span)
	assert.Same(t, droot.Operand(0), span.Target())
	assert.Equal(t, 0, span.Start())
	assert.Equal(t, 17, span.End())
}

func TestReadRejectsBadMagic(t *testing.T) {
	t.Parallel()
	_, err := heapio.NewReader(bytes.NewReader([]byte("wysintactic")), item.Format).Read()
	assert.ErrorIs(t, err, heapio.ErrBadMagic)
}

func TestReadRejectsVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		version byte
	}{
		{"newer-major", 0x20}, // 2.0
		{"older-major", 0x00}, // 0.0
		{"newer-minor", 0x11}, // 1.1
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stream := append([]byte("wysyntactic"), tt.version)
			_, err := heapio.NewReader(bytes.NewReader(stream), item.Format).Read()
			assert.ErrorIs(t, err, heapio.ErrVersion)
		})
	}
}

func TestReadRejectsTruncation(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := heap.New()
	h.SetRoot(item.NewPair(item.NewIdentifier("x"), item.NewBool(true)))
	require.NoError(t, heapio.NewWriter(&buf, item.Format).Write(h))

	// Every strict prefix of a valid stream must fail, and a truncation
	// after the header is reported as an unexpected end of stream.
	stream := buf.Bytes()
	for n := 0; n != len(stream); n++ {
		_, err := heapio.NewReader(bytes.NewReader(stream[:n]), item.Format).Read()
		require.Error(t, err, "prefix of %d bytes", n)
	}
	_, err := heapio.NewReader(bytes.NewReader(stream[:len(stream)-1]), item.Format).Read()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadRejectsUnknownOpcode(t *testing.T) {
	t.Parallel()
	// Header, one item rooted at zero, then an opcode outside the table.
	stream, err := hex.DecodeString("777973796e74616374696310" + "10" + "40")
	require.NoError(t, err)
	_, err = heapio.NewReader(bytes.NewReader(stream), item.Format).Read()
	assert.ErrorContains(t, err, "item 0: unknown opcode 0x40")
}

func TestReadRejectsOperandOutOfRange(t *testing.T) {
	t.Parallel()
	// One tuple claiming an operand at index 5 in a one-item heap.
	stream, err := hex.DecodeString("777973796e74616374696310" + "10" + "0715")
	require.NoError(t, err)
	_, err = heapio.NewReader(bytes.NewReader(stream), item.Format).Read()
	assert.ErrorContains(t, err, "item 0: operand index 5 out of range")
}

func TestReadRejectsRootOutOfRange(t *testing.T) {
	t.Parallel()
	stream, err := hex.DecodeString("777973796e74616374696310" + "13")
	require.NoError(t, err)
	_, err = heapio.NewReader(bytes.NewReader(stream), item.Format).Read()
	assert.ErrorContains(t, err, "root index 3 out of range")
}

func TestReadRejectsEmptyHeap(t *testing.T) {
	t.Parallel()
	stream, err := hex.DecodeString("777973796e74616374696310" + "00")
	require.NoError(t, err)
	_, err = heapio.NewReader(bytes.NewReader(stream), item.Format).Read()
	assert.ErrorContains(t, err, "empty heap")
}

func TestWriteRejectsEmptyHeap(t *testing.T) {
	t.Parallel()
	err := heapio.NewWriter(io.Discard, item.Format).Write(heap.New())
	assert.ErrorContains(t, err, "empty heap")
}

func TestWriteRejectsNilOperand(t *testing.T) {
	t.Parallel()
	p := item.NewPair(item.NewIdentifier("x"), nil)
	x := p.First()
	h := heap.FromItems([]heap.Item{p, x}, 0)

	err := heapio.NewWriter(io.Discard, item.Format).Write(h)
	assert.ErrorContains(t, err, "item 0: nil operand slot 1")
}

func TestWriteRejectsForeignOperand(t *testing.T) {
	t.Parallel()
	other := heap.New()
	x := other.Allocate(item.NewIdentifier("x"))
	h := heap.FromItems([]heap.Item{item.NewRef(x)}, 0)

	err := heapio.NewWriter(io.Discard, item.Format).Write(h)
	assert.ErrorContains(t, err, "item 0: operand slot 0 not allocated to this heap")
}

func TestWriteRejectsUnknownOpcode(t *testing.T) {
	t.Parallel()
	h := heap.FromItems([]heap.Item{newNode(0x40, nil, nil)}, 0)
	err := heapio.NewWriter(io.Discard, item.Format).Write(h)
	assert.ErrorContains(t, err, "item 0: unknown opcode 0x40")
}

func TestWriteRejectsSchemaMismatch(t *testing.T) {
	t.Parallel()
	t.Run("operands", func(t *testing.T) {
		t.Parallel()
		// A pair built with three slots contradicts its fixed class.
		broken := item.Schemas[item.OpPair].Construct(item.OpPair, make([]heap.Item, 3), nil)
		for i := 0; i != 3; i++ {
			broken.SetOperand(i, item.NewNull())
		}
		h := heap.New()
		h.SetRoot(broken)
		err := heapio.NewWriter(io.Discard, item.Format).Write(h)
		assert.ErrorContains(t, err, "operand count 3 does not match schema class 2")
	})
	t.Run("data", func(t *testing.T) {
		t.Parallel()
		broken := item.Schemas[item.OpBool].Construct(item.OpBool, nil, []byte{1, 2})
		h := heap.FromItems([]heap.Item{broken}, 0)
		err := heapio.NewWriter(io.Discard, item.Format).Write(h)
		assert.ErrorContains(t, err, "data size 2 does not match schema class 1")
	})
}
