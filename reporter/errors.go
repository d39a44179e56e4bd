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

// Package reporter ties errors to source positions and renders them for
// humans and for tools. A [SyntaxError] names the offending compilation unit
// and the syntactic item at fault; rendering resolves the item to a source
// span (directly, or through the span enclosing it on its heap) and shows
// the offending line. A [Handler] accumulates errors during a build so that
// as many problems as possible surface in one run.
package reporter

import (
	"fmt"

	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/vfs"
)

// SyntaxError is a fault in some piece of syntax: a mistake in the input
// program or, when Internal is set, a failure of the tool while processing
// it. Entry and Item tie the error to a source position; either may be nil,
// in which case rendering degrades to the bare message.
type SyntaxError struct {
	// Msg details the problem.
	Msg string
	// Entry is the compilation unit the error refers to.
	Entry vfs.Entry
	// Item is the syntactic item the error is attached to.
	Item heap.Item
	// Cause is the underlying error, if any.
	Cause error
	// Internal marks an error in the tool rather than in the input.
	Internal bool
}

// Errorf returns a syntax error at the given item of the given compilation
// unit.
func Errorf(entry vfs.Entry, item heap.Item, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Msg:   fmt.Sprintf(format, args...),
		Entry: entry,
		Item:  item,
	}
}

// Internalf returns an internal failure at the given item: something went
// wrong processing the syntax, rather than the syntax being wrong.
func Internalf(entry vfs.Entry, item heap.Item, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Msg:      fmt.Sprintf(format, args...),
		Entry:    entry,
		Item:     item,
		Internal: true,
	}
}

// Message returns the display message, prefixed for internal failures.
func (e *SyntaxError) Message() string {
	if !e.Internal {
		return e.Msg
	}
	if e.Msg == "" {
		return "internal failure"
	}
	return "internal failure, " + e.Msg
}

// Error implements the error interface without touching the source text;
// use [Render] or [RenderBrief] for position-resolved output.
func (e *SyntaxError) Error() string {
	if e.Entry == nil {
		return "syntax error: " + e.Message()
	}
	return e.Entry.Location() + ": " + e.Message()
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}
