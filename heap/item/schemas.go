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

package item

import (
	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/heapio"
)

// Schemas is the codec registry for the builtin vocabulary, indexed by
// opcode. Construct is handed operand slices that may still contain nil
// slots; the decoder patches them in afterwards, which is what lets a
// cross-reference point back at an enclosing item.
var Schemas = []heap.Schema{
	OpNull: {
		Operands: 0, Data: 0, Mnemonic: "null",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Null{heap.NewBase(OpNull, operands, data)}
		},
	},
	OpBool: {
		Operands: 0, Data: 1, Mnemonic: "bool",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Bool{heap.NewBase(OpBool, operands, data)}
		},
	},
	OpByte: {
		Operands: 0, Data: 1, Mnemonic: "byte",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Byte{heap.NewBase(OpByte, operands, data)}
		},
	},
	OpInt: {
		Operands: 0, Data: heap.Many, Mnemonic: "int",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Int{heap.NewBase(OpInt, operands, data)}
		},
	},
	OpUTF8: {
		Operands: 0, Data: heap.Many, Mnemonic: "utf8",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &UTF8{heap.NewBase(OpUTF8, operands, data)}
		},
	},
	OpIdentifier: {
		Operands: 0, Data: heap.Many, Mnemonic: "identifier",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Identifier{heap.NewBase(OpIdentifier, operands, data)}
		},
	},
	OpPair: {
		Operands: 2, Data: 0, Mnemonic: "pair",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Pair{heap.NewBase(OpPair, operands, data)}
		},
	},
	OpTuple: {
		Operands: heap.Many, Data: 0, Mnemonic: "tuple",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Tuple{heap.NewBase(OpTuple, operands, data)}
		},
	},
	OpName: {
		Operands: heap.Many, Data: 0, Mnemonic: "name",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Name{heap.NewBase(OpName, operands, data)}
		},
	},
	OpRef: {
		Operands: 1, Data: 0, Mnemonic: "ref",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Ref{heap.NewBase(OpRef, operands, data)}
		},
	},
	OpSpan: {
		Operands: 3, Data: 0, Mnemonic: "span",
		Construct: func(_ heap.Opcode, operands []heap.Item, data []byte) heap.Item {
			return &Span{heap.NewBase(OpSpan, operands, data)}
		},
	},
}

// Format is the binary file format for heaps built over the builtin
// vocabulary.
var Format = heapio.Format{
	Magic:   []byte("wysyntactic"),
	Major:   1,
	Minor:   0,
	Schemas: Schemas,
}
