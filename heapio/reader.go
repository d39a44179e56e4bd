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

package heapio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/utting/WhileyCompilerCollection/heap"
)

// Reader decodes one syntactic heap from a byte stream.
type Reader struct {
	bits   *BitReader
	format Format
}

// NewReader returns a Reader decoding streams in the given format from r.
func NewReader(r io.Reader, format Format) *Reader {
	return &Reader{bits: NewBitReader(bufio.NewReader(r)), format: format}
}

// record is one undecoded item: its opcode, the indices of its operands
// and its raw data bytes.
type record struct {
	opcode   heap.Opcode
	operands []uint64
	data     []byte
}

// Read decodes a complete heap. The header is checked first and fails with
// [ErrBadMagic] or [ErrVersion] before anything else is consumed; later
// failures identify the offending item. A stream ending early surfaces
// [io.ErrUnexpectedEOF].
func (r *Reader) Read() (*heap.Heap, error) {
	if err := r.checkHeader(); err != nil {
		return nil, err
	}
	count, err := r.bits.ReadUv()
	if err != nil {
		return nil, fmt.Errorf("heapio: item count: %w", noEOF(err))
	}
	if count == 0 {
		return nil, errors.New("heapio: empty heap")
	}
	root, err := r.bits.ReadUv()
	if err != nil {
		return nil, fmt.Errorf("heapio: root index: %w", noEOF(err))
	}
	if root >= count {
		return nil, fmt.Errorf("heapio: root index %d out of range", root)
	}
	r.bits.Pad()
	records := make([]record, count)
	for i := range records {
		rec, err := r.readRecord(count)
		if err != nil {
			return nil, fmt.Errorf("heapio: item %d: %w", i, err)
		}
		records[i] = rec
	}
	return construct(r.format, records, int(root)), nil
}

func (r *Reader) checkHeader() error {
	for _, want := range r.format.Magic {
		got, err := r.bits.ReadByte()
		if err != nil {
			return fmt.Errorf("heapio: header: %w", noEOF(err))
		}
		if got != want {
			return ErrBadMagic
		}
	}
	major, err := r.bits.ReadUv()
	if err != nil {
		return fmt.Errorf("heapio: header: %w", noEOF(err))
	}
	minor, err := r.bits.ReadUv()
	if err != nil {
		return fmt.Errorf("heapio: header: %w", noEOF(err))
	}
	if major != uint64(r.format.Major) || minor > uint64(r.format.Minor) {
		return fmt.Errorf("%w %d.%d", ErrVersion, major, minor)
	}
	r.bits.Pad()
	return nil
}

// readRecord decodes one item record. Operand and data lengths come from
// the opcode's schema; variable classes carry an explicit count.
func (r *Reader) readRecord(count uint64) (record, error) {
	opcode, err := r.bits.ReadByte()
	if err != nil {
		return record{}, noEOF(err)
	}
	rec := record{opcode: heap.Opcode(opcode)}
	schema, err := r.format.schema(rec.opcode)
	if err != nil {
		return record{}, err
	}
	noperands := uint64(0)
	if schema.Operands == heap.Many {
		if noperands, err = r.bits.ReadUv(); err != nil {
			return record{}, noEOF(err)
		}
	} else {
		noperands = uint64(schema.Operands)
	}
	rec.operands = make([]uint64, noperands)
	for i := range rec.operands {
		operand, err := r.bits.ReadUv()
		if err != nil {
			return record{}, noEOF(err)
		}
		if operand >= count {
			return record{}, fmt.Errorf("operand index %d out of range", operand)
		}
		rec.operands[i] = operand
	}
	ndata := uint64(0)
	if schema.Data == heap.Many {
		if ndata, err = r.bits.ReadUv(); err != nil {
			return record{}, noEOF(err)
		}
	} else {
		ndata = uint64(schema.Data)
	}
	rec.data = make([]byte, ndata)
	for i := range rec.data {
		if rec.data[i], err = r.bits.ReadByte(); err != nil {
			return record{}, noEOF(err)
		}
	}
	r.bits.Pad()
	return rec, nil
}

// construct resolves the flat record table into live items. Each item is
// memoized before its operands are constructed, so a cross-reference back
// into an enclosing item lands on the partially built value instead of
// recursing forever.
func construct(format Format, records []record, root int) *heap.Heap {
	items := make([]heap.Item, len(records))
	var build func(i uint64) heap.Item
	build = func(i uint64) heap.Item {
		if items[i] != nil {
			return items[i]
		}
		rec := records[i]
		schema := format.Schemas[rec.opcode]
		item := schema.Construct(rec.opcode, make([]heap.Item, len(rec.operands)), rec.data)
		items[i] = item
		for slot, operand := range rec.operands {
			item.SetOperand(slot, build(operand))
		}
		return item
	}
	for i := range records {
		build(uint64(i))
	}
	return heap.FromItems(items, root)
}

// noEOF turns a clean end-of-stream inside the payload into the truncation
// error it really is.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
