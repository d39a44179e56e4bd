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

package reporter

import (
	"slices"
	"strings"
	"sync"
)

// Index resolves byte offsets within a source text to lines. The line table
// is a prefix sum of line lengths, built lazily on first use; a binary
// search over it recovers the line holding any offset. Safe for concurrent
// readers once constructed.
type Index struct {
	text string

	once sync.Once
	// starts[i] is the byte offset at which line i+1 begins.
	starts []int
}

// NewIndex returns an index over text.
func NewIndex(text string) *Index {
	return &Index{text: text}
}

// Line is one line of an indexed text.
type Line struct {
	// Number is the 1-based line number.
	Number int
	// Start is the offset of the line's first byte.
	Start int
	// End is the offset just past the line, counting its newline byte.
	End int
	// Text is the line's content without the trailing newline.
	Text string
}

// Enclosing returns the line containing the given byte offset. Offsets
// outside the text are clamped, so an offset at or past the end lands on
// the final line.
func (x *Index) Enclosing(offset int) Line {
	starts := x.lines()
	if offset >= len(x.text) {
		offset = len(x.text) - 1
	}
	if offset < 0 {
		offset = 0
	}
	i, exact := slices.BinarySearch(starts, offset)
	if !exact {
		i--
	}
	start := starts[i]
	end := len(x.text)
	if i+1 < len(starts) {
		end = starts[i+1]
	}
	return Line{
		Number: i + 1,
		Start:  start,
		End:    end,
		Text:   strings.TrimSuffix(x.text[start:end], "\n"),
	}
}

func (x *Index) lines() []int {
	x.once.Do(func() {
		next := 0
		rest := x.text
		for {
			nl := strings.IndexByte(rest, '\n') + 1
			if nl == 0 {
				break
			}
			rest = rest[nl:]
			x.starts = append(x.starts, next)
			next += nl
		}
		if next < len(x.text) || len(x.starts) == 0 {
			x.starts = append(x.starts, next)
		}
	})
	return x.starts
}
