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
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/heap/item"
	"github.com/utting/WhileyCompilerCollection/vfs"
)

// position is a syntax error resolved against its source text.
type position struct {
	location string
	line     Line
	// Byte columns within the line; colEnd is inclusive and clamped to the
	// end of the line.
	colStart int
	colEnd   int
}

// RenderBrief writes the single-line, machine-readable form:
//
//	location:line:colStart:colEnd:"message"
//
// Columns are byte offsets within the line and the column range is
// inclusive; newlines and quotes in the message are escaped. When the error
// cannot be resolved to a source range the degraded form
// "syntax error: message" is written instead.
func RenderBrief(w io.Writer, e *SyntaxError) error {
	pos, ok := locate(e)
	if !ok {
		return renderDegraded(w, e)
	}
	_, err := fmt.Fprintf(w, "%s:%d:%d:%d:\"%s\"\n",
		pos.location, pos.line.Number, pos.colStart, pos.colEnd, escapeMessage(e.Message()))
	return err
}

// Render writes the full, human-readable form: a location header, the
// offending source line, and a ^-underline covering the reported columns.
// Tabs in the line are preserved in the underline so it stays aligned, and
// other characters pad by their rendered width. When the error cannot be
// resolved to a source range the degraded form "syntax error: message" is
// written instead.
func Render(w io.Writer, e *SyntaxError) error {
	pos, ok := locate(e)
	if !ok {
		return renderDegraded(w, e)
	}
	if _, err := fmt.Fprintf(w, "%s:%d: %s\n", pos.location, pos.line.Number, e.Message()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, pos.line.Text); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, underline(pos))
	return err
}

func renderDegraded(w io.Writer, e *SyntaxError) error {
	_, err := fmt.Fprintf(w, "syntax error: %s\n", e.Message())
	return err
}

// locate resolves the error's item to a span and the span to a line of the
// entry's content. Resolution fails, selecting the degraded form, when the
// entry or item is missing, no span covers the item, or the source cannot
// be read.
func locate(e *SyntaxError) (position, bool) {
	if e.Entry == nil || e.Item == nil {
		return position{}, false
	}
	span, ok := findSpan(e.Item)
	if !ok {
		return position{}, false
	}
	data, err := vfs.ReadAll(e.Entry)
	if err != nil {
		return position{}, false
	}
	line := NewIndex(string(data)).Enclosing(span.Start())

	colStart := span.Start() - line.Start
	if colStart < 0 {
		colStart = 0
	}
	if colStart > len(line.Text) {
		colStart = len(line.Text)
	}
	colEnd := min(span.End(), line.End) - line.Start
	if colEnd < colStart {
		colEnd = colStart
	}
	return position{
		location: e.Entry.Location(),
		line:     line,
		colStart: colStart,
		colEnd:   colEnd,
	}, true
}

// findSpan returns the span positioning an item: the item itself when it is
// one, otherwise the nearest span on the item's heap that has it as an
// operand.
func findSpan(it heap.Item) (*item.Span, bool) {
	if s, ok := it.(*item.Span); ok {
		return s, true
	}
	if h := it.Heap(); h != nil {
		return heap.Parent[*item.Span](h, it)
	}
	return nil, false
}

// underline builds the caret line: tabs from the source keep the marker
// aligned under tab stops, every other character pads by its rendered
// width, and the marked region gets at least one caret even when it is
// empty on this line.
func underline(pos position) string {
	var b strings.Builder
	for _, r := range pos.line.Text[:pos.colStart] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		for range uniseg.StringWidth(string(r)) {
			b.WriteByte(' ')
		}
	}
	marked := pos.line.Text[pos.colStart:min(pos.colEnd+1, len(pos.line.Text))]
	carets := uniseg.StringWidth(marked)
	if carets < 1 {
		carets = 1
	}
	b.WriteString(strings.Repeat("^", carets))
	return b.String()
}

func escapeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", `\n`)
	return strings.ReplaceAll(msg, `"`, `\"`)
}
