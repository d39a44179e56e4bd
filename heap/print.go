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

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Print writes a human-readable listing of every item in h to w, one line
// per item with indices right-aligned so the listing reads as columns.
// Kinds implementing [fmt.Stringer] render themselves; anything else falls
// back to a generic opcode/operand form.
func (h *Heap) Print(w io.Writer) error {
	width := len(strconv.Itoa(h.Len()))
	for i, item := range h.items {
		idx := strconv.Itoa(i)
		pad := strings.Repeat(" ", width-len(idx))
		if _, err := fmt.Fprintf(w, "// %s#%s %s\n", pad, idx, itemString(item)); err != nil {
			return err
		}
	}
	return nil
}

func itemString(item Item) string {
	if s, ok := item.(fmt.Stringer); ok {
		return s.String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "0x%02x(", uint8(item.Opcode()))
	for i, operand := range item.Operands() {
		if i != 0 {
			sb.WriteByte(',')
		}
		switch {
		case operand == nil:
			sb.WriteByte('?')
		case operand.Heap() != nil:
			fmt.Fprintf(&sb, "#%d", operand.Index())
		default:
			sb.WriteString(itemString(operand))
		}
	}
	sb.WriteByte(')')
	if data := item.Data(); len(data) > 0 {
		fmt.Fprintf(&sb, "[%x]", data)
	}
	return sb.String()
}
