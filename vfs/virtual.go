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
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tidwall/btree"
)

// VirtualRoot is a [Root] holding its entries entirely in memory. A fresh
// root is empty; entries appear through [VirtualRoot.Create] and vanish with
// the root itself. Builds typically direct intermediate artifacts here so
// that nothing is written to disk unless the user asks for it.
type VirtualRoot struct {
	mu sync.RWMutex
	// Keys are "id.suffix", so iteration yields entries ordered by path.
	entries btree.Map[string, *virtualEntry]
}

// NewVirtualRoot returns an empty in-memory root.
func NewVirtualRoot() *VirtualRoot {
	return &VirtualRoot{}
}

func entryKey(id ID, ctype Type) string {
	return string(id) + "." + ctype.Suffix
}

// Get returns the entry previously created under the given ID and content
// type.
func (r *VirtualRoot) Get(id ID, ctype Type) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries.Get(entryKey(id, ctype)); ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotExist, entryKey(id, ctype))
}

// Create returns the entry with the given ID and content type, adding an
// empty one when it does not exist yet.
func (r *VirtualRoot) Create(id ID, ctype Type) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entryKey(id, ctype)
	if e, ok := r.entries.Get(key); ok {
		return e, nil
	}
	e := &virtualEntry{root: r, id: id, ctype: ctype}
	r.entries.Set(key, e)
	return e, nil
}

// Match returns the entries accepted by the filter, in path order.
func (r *VirtualRoot) Match(filter Filter) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []Entry
	r.entries.Scan(func(_ string, e *virtualEntry) bool {
		if filter(e.id, e.ctype) {
			matches = append(matches, e)
		}
		return true
	})
	return matches, nil
}

// Contains reports whether the entry was created by this root.
func (r *VirtualRoot) Contains(e Entry) (bool, error) {
	v, ok := e.(*virtualEntry)
	return ok && v.root == r, nil
}

type virtualEntry struct {
	root  *VirtualRoot
	id    ID
	ctype Type

	// Guarded by root.mu. The data slice is replaced wholesale on each
	// write, never mutated in place, so readers may hold a snapshot of it
	// outside the lock.
	data     []byte
	modified time.Time
}

func (e *virtualEntry) ID() ID            { return e.id }
func (e *virtualEntry) ContentType() Type { return e.ctype }

// Location prefixes the path with "~:" to mark content with no on-disk home.
func (e *virtualEntry) Location() string {
	return "~:" + string(e.id)
}

func (e *virtualEntry) LastModified() time.Time {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	return e.modified
}

func (e *virtualEntry) Open() (io.ReadCloser, error) {
	e.root.mu.RLock()
	data := e.data
	e.root.mu.RUnlock()
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (e *virtualEntry) Create() (io.WriteCloser, error) {
	return &virtualWriter{entry: e}, nil
}

func (e *virtualEntry) String() string {
	return e.Location()
}

// virtualWriter accumulates written bytes and installs them as the entry's
// content on Close.
type virtualWriter struct {
	entry  *virtualEntry
	buf    bytes.Buffer
	closed bool
}

func (w *virtualWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("vfs: write to closed entry %s", w.entry.Location())
	}
	return w.buf.Write(p)
}

func (w *virtualWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	e := w.entry
	e.root.mu.Lock()
	defer e.root.mu.Unlock()
	e.data = w.buf.Bytes()
	e.modified = time.Now()
	return nil
}
