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

// Writer encodes syntactic heaps onto a byte stream.
type Writer struct {
	buf    *bufio.Writer
	bits   *BitWriter
	format Format
}

// NewWriter returns a Writer encoding streams in the given format to w.
func NewWriter(w io.Writer, format Format) *Writer {
	buf := bufio.NewWriter(w)
	return &Writer{buf: buf, bits: NewBitWriter(buf), format: format}
}

// Write encodes h and flushes the stream. Every item must carry an opcode
// known to the format, operand counts and data sizes matching its schema
// class, and no nil operand slots; absence has to be modelled as an
// explicit item kind before a heap can be written.
func (w *Writer) Write(h *heap.Heap) error {
	if h.Len() == 0 {
		return errors.New("heapio: cannot encode empty heap")
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	if err := w.bits.WriteUv(uint64(h.Len())); err != nil {
		return err
	}
	if err := w.bits.WriteUv(uint64(h.Root().Index())); err != nil {
		return err
	}
	if err := w.bits.Pad(); err != nil {
		return err
	}
	for i := 0; i != h.Len(); i++ {
		if err := w.writeItem(h, h.Get(i)); err != nil {
			return fmt.Errorf("heapio: item %d: %w", i, err)
		}
	}
	return w.buf.Flush()
}

func (w *Writer) writeHeader() error {
	for _, b := range w.format.Magic {
		if err := w.bits.WriteByte(b); err != nil {
			return err
		}
	}
	if err := w.bits.WriteUv(uint64(w.format.Major)); err != nil {
		return err
	}
	if err := w.bits.WriteUv(uint64(w.format.Minor)); err != nil {
		return err
	}
	return w.bits.Pad()
}

func (w *Writer) writeItem(h *heap.Heap, item heap.Item) error {
	schema, err := w.format.schema(item.Opcode())
	if err != nil {
		return err
	}
	if err := w.bits.WriteByte(byte(item.Opcode())); err != nil {
		return err
	}
	switch {
	case schema.Operands == heap.Many:
		if err := w.bits.WriteUv(uint64(item.Len())); err != nil {
			return err
		}
	case item.Len() != int(schema.Operands):
		return fmt.Errorf("operand count %d does not match schema class %d", item.Len(), schema.Operands)
	}
	for i := 0; i != item.Len(); i++ {
		operand := item.Operand(i)
		switch {
		case operand == nil:
			return fmt.Errorf("nil operand slot %d", i)
		case operand.Heap() != h:
			return fmt.Errorf("operand slot %d not allocated to this heap", i)
		}
		if err := w.bits.WriteUv(uint64(operand.Index())); err != nil {
			return err
		}
	}
	data := item.Data()
	switch {
	case schema.Data == heap.Many:
		if err := w.bits.WriteUv(uint64(len(data))); err != nil {
			return err
		}
	case len(data) != int(schema.Data):
		return fmt.Errorf("data size %d does not match schema class %d", len(data), schema.Data)
	}
	for _, b := range data {
		if err := w.bits.WriteByte(b); err != nil {
			return err
		}
	}
	return w.bits.Pad()
}
