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

// Many marks a variable-length operand sequence or data payload in a
// [Schema]. Variable-length sequences are preceded by an explicit count on
// the wire; fixed-length ones are not.
const Many = -1

// Schema describes one opcode: how many operands and data bytes its items
// carry, a mnemonic for dumps and diagnostics, and a constructor used when
// decoding. A schema table indexed by opcode forms the registry which drives
// the binary codec; the format carries no embedded schema, so encoder and
// decoder must agree on the table.
type Schema struct {
	// Operands is the exact operand count, between 0 and 8, or Many.
	Operands int8

	// Data is the exact payload length in bytes, 0, 1 or 2, or Many.
	Data int8

	// Mnemonic names the kind, e.g. "pair".
	Mnemonic string

	// Construct builds a detached item from its decoded parts. The operand
	// slice has the correct length but holds nil placeholders; the decoder
	// back-patches each slot once the referenced item exists.
	Construct func(opcode Opcode, operands []Item, data []byte) Item
}
