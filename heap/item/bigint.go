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

import "math/big"

var bigOne = big.NewInt(1)

// intToBytes encodes v as its minimal big-endian two's-complement byte
// string. The result is always at least one byte, so zero encodes as 0x00
// and the sign is always recoverable from the top bit.
func intToBytes(v *big.Int) []byte {
	if v.Sign() >= 0 {
		b := v.Bytes()
		switch {
		case len(b) == 0:
			return []byte{0}
		case b[0]&0x80 != 0:
			// Top bit would read as a sign; prepend a zero byte.
			return append([]byte{0}, b...)
		default:
			return b
		}
	}
	// Minimal length n such that v >= -(1 << (8n - 1)), then add 1 << 8n
	// to wrap into the unsigned range.
	abs := new(big.Int).Neg(v)
	abs.Sub(abs, bigOne)
	n := abs.BitLen()/8 + 1
	twos := new(big.Int).Lsh(bigOne, uint(8*n))
	twos.Add(twos, v)
	b := twos.Bytes()
	if len(b) < n {
		padded := make([]byte, n)
		copy(padded[n-len(b):], b)
		return padded
	}
	return b
}

// bytesToInt decodes a big-endian two's-complement byte string. An empty
// string decodes as zero.
func bytesToInt(data []byte) *big.Int {
	v := new(big.Int).SetBytes(data)
	if len(data) > 0 && data[0]&0x80 != 0 {
		wrap := new(big.Int).Lsh(bigOne, uint(8*len(data)))
		v.Sub(v, wrap)
	}
	return v
}
