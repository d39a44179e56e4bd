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

package vfs

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotExist is reported by [Root.Get] when no entry with the requested ID
// and content type exists. Test for it with [errors.Is]; the returned error
// carries the missing path.
var ErrNotExist = errors.New("vfs: entry does not exist")

// Entry is a single piece of content within a root: one file, identified by
// its ID and content type together. The same ID may appear under several
// content types at once, e.g. as both source text and a compiled binary.
type Entry interface {
	// ID is the entry's path within its root.
	ID() ID
	// ContentType reports what kind of content the entry holds.
	ContentType() Type
	// Location renders a human-readable origin for diagnostics, such as a
	// filesystem path.
	Location() string
	// LastModified reports when the entry's content last changed, or the
	// zero time when that cannot be determined.
	LastModified() time.Time
	// Open returns the entry's current content for reading.
	Open() (io.ReadCloser, error)
	// Create returns a writer which replaces the entry's content. The new
	// content becomes visible when the writer is closed.
	Create() (io.WriteCloser, error)
}

// Filter selects entries by ID and content type, without forcing the root to
// open them.
type Filter func(ID, Type) bool

// Glob returns a filter matching entries whose ID matches pattern, which may
// use doublestar syntax ("src/**/*" and friends). When one or more types are
// given the entry's content type must also be among them; with none, any
// type is accepted. Glob panics if the pattern is malformed.
func Glob(pattern string, types ...Type) Filter {
	if !doublestar.ValidatePattern(pattern) {
		panic(fmt.Sprintf("vfs: invalid glob pattern %q", pattern))
	}
	return func(id ID, ctype Type) bool {
		if len(types) > 0 {
			found := false
			for _, t := range types {
				if t == ctype {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		ok, _ := doublestar.Match(pattern, string(id))
		return ok
	}
}

// Or combines filters into one accepting anything at least one of them
// accepts. With no arguments the result accepts nothing.
func Or(filters ...Filter) Filter {
	return func(id ID, ctype Type) bool {
		for _, f := range filters {
			if f(id, ctype) {
				return true
			}
		}
		return false
	}
}

// Root is a collection of entries, such as a source directory or an
// in-memory store of intermediates. Implementations must be safe for
// concurrent use; build tasks run in parallel against shared roots.
type Root interface {
	// Get returns the entry with the given ID and content type, or an error
	// wrapping [ErrNotExist] when there is none.
	Get(id ID, ctype Type) (Entry, error)
	// Create returns the entry with the given ID and content type, creating
	// it first if need be. The content of a newly created entry is written
	// through [Entry.Create].
	Create(id ID, ctype Type) (Entry, error)
	// Match returns all entries accepted by the filter, ordered by ID.
	Match(filter Filter) ([]Entry, error)
	// Contains reports whether the entry belongs to this root.
	Contains(e Entry) (bool, error)
}

// ReadAll returns the full content of an entry.
func ReadAll(e Entry) ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// WriteAll replaces the content of an entry.
func WriteAll(e Entry, data []byte) error {
	wc, err := e.Create()
	if err != nil {
		return err
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
