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

// Package heapio encodes and decodes syntactic heaps as dense bit streams.
//
// A stream is a header (magic string, then major and minor version numbers,
// padded to a byte boundary), an item count and root index (padded
// likewise), and one record per item. Each record is an opcode byte, the
// operand indices, the data bytes, and padding to the next byte boundary;
// whether counts are implicit or carried inline is decided by the opcode's
// schema. The format carries no schema of its own, so reader and writer
// must be handed the same [Format] the stream was produced with.
package heapio

import (
	"errors"
	"fmt"

	"github.com/utting/WhileyCompilerCollection/heap"
)

// Decode failures distinguished by the header check. Everything after the
// header fails with errors wrapping the offending item index instead.
var (
	ErrBadMagic = errors.New("heapio: invalid magic number")
	ErrVersion  = errors.New("heapio: unsupported format version")
)

// Format identifies a concrete heap file format: the magic string opening
// every stream, the version stamped after it, and the schema table opcodes
// are resolved against. A reader accepts a stream when the major version
// matches exactly and the minor version is not newer than its own.
type Format struct {
	Magic   []byte
	Major   uint32
	Minor   uint32
	Schemas []heap.Schema
}

// schema resolves an opcode against the table. Unknown opcodes are decode
// errors; a table entry with a class outside the format's vocabulary is a
// bug in the registry and panics.
func (f Format) schema(opcode heap.Opcode) (heap.Schema, error) {
	if int(opcode) >= len(f.Schemas) || f.Schemas[opcode].Construct == nil {
		return heap.Schema{}, fmt.Errorf("unknown opcode 0x%02x", opcode)
	}
	s := f.Schemas[opcode]
	if s.Operands < heap.Many || s.Operands > 8 {
		panic(fmt.Sprintf("heapio: schema for opcode 0x%02x has invalid operand class %d", opcode, s.Operands))
	}
	if s.Data < heap.Many || s.Data > 2 {
		panic(fmt.Sprintf("heapio: schema for opcode 0x%02x has invalid data class %d", opcode, s.Data))
	}
	return s, nil
}
