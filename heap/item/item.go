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

// Package item defines the builtin structural vocabulary shared by all
// compilation units: atomic values, pairs, tuples, qualified names, source
// spans and cross-references. Language-specific node kinds layer their own
// opcodes on top; the kinds here are the substrate every tool can rely on,
// and [Schemas] is their registry for the binary codec.
package item

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/utting/WhileyCompilerCollection/heap"
)

// Opcodes of the builtin vocabulary.
const (
	OpNull       heap.Opcode = 0x00
	OpBool       heap.Opcode = 0x01
	OpByte       heap.Opcode = 0x02
	OpInt        heap.Opcode = 0x03
	OpUTF8       heap.Opcode = 0x04
	OpIdentifier heap.Opcode = 0x05
	OpPair       heap.Opcode = 0x06
	OpTuple      heap.Opcode = 0x07
	OpName       heap.Opcode = 0x08
	OpRef        heap.Opcode = 0x09
	OpSpan       heap.Opcode = 0x0a
)

// Null is the absent value. Operand slots must never be nil in an encoded
// heap, so absence is modelled with a Null item instead.
type Null struct {
	heap.Base
}

// NewNull returns a detached null item.
func NewNull() *Null {
	return &Null{heap.NewBase(OpNull, nil, nil)}
}

// WithOperands implements [heap.Item].
func (n *Null) WithOperands(operands []heap.Item) heap.Item {
	return &Null{heap.NewBase(n.Opcode(), operands, n.Data())}
}

func (n *Null) String() string { return "null" }

// Bool is a boolean value, carried as a single data byte.
type Bool struct {
	heap.Base
}

// NewBool returns a detached boolean item.
func NewBool(value bool) *Bool {
	data := []byte{0}
	if value {
		data[0] = 1
	}
	return &Bool{heap.NewBase(OpBool, nil, data)}
}

// Value returns the boolean this item carries.
func (b *Bool) Value() bool { return b.Data()[0] != 0 }

// WithOperands implements [heap.Item].
func (b *Bool) WithOperands(operands []heap.Item) heap.Item {
	return &Bool{heap.NewBase(b.Opcode(), operands, b.Data())}
}

func (b *Bool) String() string { return strconv.FormatBool(b.Value()) }

// Byte is a single raw byte value.
type Byte struct {
	heap.Base
}

// NewByte returns a detached byte item.
func NewByte(value byte) *Byte {
	return &Byte{heap.NewBase(OpByte, nil, []byte{value})}
}

// Value returns the byte this item carries.
func (b *Byte) Value() byte { return b.Data()[0] }

// WithOperands implements [heap.Item].
func (b *Byte) WithOperands(operands []heap.Item) heap.Item {
	return &Byte{heap.NewBase(b.Opcode(), operands, b.Data())}
}

func (b *Byte) String() string { return fmt.Sprintf("0x%02x", b.Value()) }

// Int is an arbitrary precision integer, carried as its minimal big-endian
// two's-complement encoding.
type Int struct {
	heap.Base
}

// NewInt returns a detached integer item carrying value.
func NewInt(value *big.Int) *Int {
	return &Int{heap.NewBase(OpInt, nil, intToBytes(value))}
}

// NewInt64 returns a detached integer item carrying value.
func NewInt64(value int64) *Int {
	return NewInt(big.NewInt(value))
}

// Value returns the integer this item carries.
func (i *Int) Value() *big.Int { return bytesToInt(i.Data()) }

// Int returns the integer this item carries as an int. Values outside the
// int range are truncated.
func (i *Int) Int() int { return int(i.Value().Int64()) }

// WithOperands implements [heap.Item].
func (i *Int) WithOperands(operands []heap.Item) heap.Item {
	return &Int{heap.NewBase(i.Opcode(), operands, i.Data())}
}

func (i *Int) String() string { return i.Value().String() }

// UTF8 is a string literal, carried as its UTF-8 bytes.
type UTF8 struct {
	heap.Base
}

// NewUTF8 returns a detached string item.
func NewUTF8(value string) *UTF8 {
	return &UTF8{heap.NewBase(OpUTF8, nil, []byte(value))}
}

// Value returns the text this item carries.
func (u *UTF8) Value() string { return string(u.Data()) }

// WithOperands implements [heap.Item].
func (u *UTF8) WithOperands(operands []heap.Item) heap.Item {
	return &UTF8{heap.NewBase(u.Opcode(), operands, u.Data())}
}

func (u *UTF8) String() string { return strconv.Quote(u.Value()) }

// Identifier is a bare name, such as one component of a qualified name.
type Identifier struct {
	heap.Base
}

// NewIdentifier returns a detached identifier item.
func NewIdentifier(name string) *Identifier {
	return &Identifier{heap.NewBase(OpIdentifier, nil, []byte(name))}
}

// Value returns the name this identifier carries.
func (id *Identifier) Value() string { return string(id.Data()) }

// WithOperands implements [heap.Item].
func (id *Identifier) WithOperands(operands []heap.Item) heap.Item {
	return &Identifier{heap.NewBase(id.Opcode(), operands, id.Data())}
}

func (id *Identifier) String() string { return id.Value() }

// Pair holds exactly two operands.
type Pair struct {
	heap.Base
}

// NewPair returns a detached pair of the given items.
func NewPair(first, second heap.Item) *Pair {
	return &Pair{heap.NewBase(OpPair, []heap.Item{first, second}, nil)}
}

// First returns the first element.
func (p *Pair) First() heap.Item { return p.Operand(0) }

// Second returns the second element.
func (p *Pair) Second() heap.Item { return p.Operand(1) }

// WithOperands implements [heap.Item].
func (p *Pair) WithOperands(operands []heap.Item) heap.Item {
	return &Pair{heap.NewBase(p.Opcode(), operands, p.Data())}
}

func (p *Pair) String() string {
	return "pair(" + ref(p.First()) + "," + ref(p.Second()) + ")"
}

// Tuple holds any number of operands.
type Tuple struct {
	heap.Base
}

// NewTuple returns a detached tuple of the given items.
func NewTuple(items ...heap.Item) *Tuple {
	return &Tuple{heap.NewBase(OpTuple, items, nil)}
}

// WithOperands implements [heap.Item].
func (t *Tuple) WithOperands(operands []heap.Item) heap.Item {
	return &Tuple{heap.NewBase(t.Opcode(), operands, t.Data())}
}

func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteString("tuple(")
	for i, operand := range t.Operands() {
		if i != 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(ref(operand))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Name is a qualified name: a sequence of identifier components, such as
// std::vector.
type Name struct {
	heap.Base
}

// NewName returns a detached qualified name built from the given
// components.
func NewName(components ...*Identifier) *Name {
	operands := make([]heap.Item, len(components))
	for i, component := range components {
		operands[i] = component
	}
	return &Name{heap.NewBase(OpName, operands, nil)}
}

// Components returns the identifier components of this name.
func (n *Name) Components() []*Identifier {
	components := make([]*Identifier, n.Len())
	for i := 0; i != n.Len(); i++ {
		components[i] = n.Operand(i).(*Identifier)
	}
	return components
}

// WithOperands implements [heap.Item].
func (n *Name) WithOperands(operands []heap.Item) heap.Item {
	return &Name{heap.NewBase(n.Opcode(), operands, n.Data())}
}

func (n *Name) String() string {
	parts := make([]string, n.Len())
	for i, operand := range n.Operands() {
		if id, ok := operand.(*Identifier); ok {
			parts[i] = id.Value()
		} else {
			parts[i] = ref(operand)
		}
	}
	return strings.Join(parts, "::")
}

// Ref is a cross-reference: an edge which points at another item without
// containing it. Ancestor search never follows a Ref upwards.
type Ref struct {
	heap.Base
}

// NewRef returns a detached cross-reference to target.
func NewRef(target heap.Item) *Ref {
	return &Ref{heap.NewBase(OpRef, []heap.Item{target}, nil)}
}

// Target returns the item this reference points at.
func (r *Ref) Target() heap.Item { return r.Operand(0) }

// CrossReference implements [heap.CrossReference].
func (r *Ref) CrossReference() {}

// WithOperands implements [heap.Item].
func (r *Ref) WithOperands(operands []heap.Item) heap.Item {
	return &Ref{heap.NewBase(r.Opcode(), operands, r.Data())}
}

func (r *Ref) String() string { return "&" + ref(r.Target()) }

// Span attaches a source range to an item: the target it describes plus
// inclusive start and end byte offsets into the originating source file.
type Span struct {
	heap.Base
}

// NewSpan returns a detached span covering bytes start through end,
// inclusive, of the source of target.
func NewSpan(target heap.Item, start, end int) *Span {
	operands := []heap.Item{target, NewInt64(int64(start)), NewInt64(int64(end))}
	return &Span{heap.NewBase(OpSpan, operands, nil)}
}

// Target returns the item this span describes.
func (s *Span) Target() heap.Item { return s.Operand(0) }

// Start returns the first byte offset covered by this span.
func (s *Span) Start() int { return s.Operand(1).(*Int).Int() }

// End returns the last byte offset covered by this span.
func (s *Span) End() int { return s.Operand(2).(*Int).Int() }

// WithOperands implements [heap.Item].
func (s *Span) WithOperands(operands []heap.Item) heap.Item {
	return &Span{heap.NewBase(s.Opcode(), operands, s.Data())}
}

func (s *Span) String() string {
	return fmt.Sprintf("span(%s,%d..%d)", ref(s.Target()), s.Start(), s.End())
}

// ref renders an operand position: resident items by index, absent ones as
// a question mark, detached ones inline.
func ref(operand heap.Item) string {
	switch {
	case operand == nil:
		return "?"
	case operand.Heap() != nil:
		return "#" + strconv.Itoa(operand.Index())
	default:
		return fmt.Sprintf("%v", operand)
	}
}
