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
	"errors"
	"io"
)

var errUvOverflow = errors.New("unsigned value exceeds 64 bits")

// BitWriter packs bits into bytes, most significant bit first, and hands
// completed bytes to the underlying writer. Padding with Pad fills the
// remainder of the current byte with zero bits.
type BitWriter struct {
	w     io.ByteWriter
	cur   byte
	nbits uint
}

// NewBitWriter returns a BitWriter emitting to w.
func NewBitWriter(w io.ByteWriter) *BitWriter {
	return &BitWriter{w: w}
}

// WriteBits writes the low n bits of v, most significant first.
func (w *BitWriter) WriteBits(v uint64, n uint) error {
	for i := n; i > 0; i-- {
		bit := byte(v>>(i-1)) & 1
		w.cur |= bit << (7 - w.nbits)
		w.nbits++
		if w.nbits == 8 {
			if err := w.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteByte writes a whole byte.
func (w *BitWriter) WriteByte(b byte) error {
	if w.nbits == 0 {
		return w.w.WriteByte(b)
	}
	return w.WriteBits(uint64(b), 8)
}

// WriteUv writes v as a sequence of four-bit nibbles, least significant
// three-bit group first, the top bit of each nibble flagging continuation.
func (w *BitWriter) WriteUv(v uint64) error {
	for {
		nib := byte(v & 7)
		v >>= 3
		if v != 0 {
			nib |= 8
		}
		if err := w.WriteBits(uint64(nib), 4); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// Pad advances to the next byte boundary, filling with zero bits. It is a
// no-op when already aligned.
func (w *BitWriter) Pad() error {
	if w.nbits == 0 {
		return nil
	}
	return w.flush()
}

func (w *BitWriter) flush() error {
	err := w.w.WriteByte(w.cur)
	w.cur, w.nbits = 0, 0
	return err
}

// BitReader unpacks bits from bytes, most significant bit first, mirroring
// [BitWriter].
type BitReader struct {
	r     io.ByteReader
	cur   byte
	nbits uint
}

// NewBitReader returns a BitReader consuming from r.
func NewBitReader(r io.ByteReader) *BitReader {
	return &BitReader{r: r}
}

// ReadBits reads n bits, most significant first.
func (r *BitReader) ReadBits(n uint) (uint64, error) {
	var v uint64
	for i := uint(0); i < n; i++ {
		if r.nbits == 0 {
			b, err := r.r.ReadByte()
			if err != nil {
				return 0, err
			}
			r.cur, r.nbits = b, 8
		}
		v = v<<1 | uint64(r.cur>>(r.nbits-1))&1
		r.nbits--
	}
	return v, nil
}

// ReadByte reads a whole byte.
func (r *BitReader) ReadByte() (byte, error) {
	if r.nbits == 0 {
		return r.r.ReadByte()
	}
	v, err := r.ReadBits(8)
	return byte(v), err
}

// ReadUv reads an unsigned value written by [BitWriter.WriteUv]. Values
// that do not fit 64 bits are rejected rather than truncated.
func (r *BitReader) ReadUv() (uint64, error) {
	var v uint64
	for shift := uint(0); ; shift += 3 {
		nib, err := r.ReadBits(4)
		if err != nil {
			return 0, err
		}
		group := nib & 7
		if shift >= 64 || (shift > 61 && group>>(64-shift) != 0) {
			return 0, errUvOverflow
		}
		v |= group << shift
		if nib&8 == 0 {
			return v, nil
		}
	}
}

// Pad discards bits up to the next byte boundary. It is a no-op when
// already aligned.
func (r *BitReader) Pad() {
	r.cur, r.nbits = 0, 0
}
