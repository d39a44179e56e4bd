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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirRoot is a [Root] backed by a directory on the local filesystem. Entry
// IDs mirror the directory structure beneath the root, and content types are
// resolved from file suffixes through the registry supplied at construction.
// Files whose suffix is not registered do not appear in [DirRoot.Match].
type DirRoot struct {
	dir   string
	types *Registry
}

// NewDirRoot returns a root over the given directory, recognising the
// content types held by the registry.
func NewDirRoot(dir string, types *Registry) *DirRoot {
	return &DirRoot{dir: dir, types: types}
}

func (r *DirRoot) path(id ID, ctype Type) string {
	return filepath.Join(r.dir, filepath.FromSlash(string(id))+"."+ctype.Suffix)
}

// Get returns the entry stored at id with the given content type.
func (r *DirRoot) Get(id ID, ctype Type) (Entry, error) {
	path := r.path(id, ctype)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, err
	}
	return &dirEntry{root: r, id: id, ctype: ctype, path: path}, nil
}

// Create returns the entry at id with the given content type, establishing
// any missing parent directories. The file itself is only written once the
// entry's content is.
func (r *DirRoot) Create(id ID, ctype Type) (Entry, error) {
	path := r.path(id, ctype)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &dirEntry{root: r, id: id, ctype: ctype, path: path}, nil
}

// Match walks the directory and returns the entries accepted by the filter,
// in path order.
func (r *DirRoot) Match(filter Filter) ([]Entry, error) {
	var matches []Entry
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		ctype, ok := r.types.Lookup(strings.TrimPrefix(ext, "."))
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(r.dir, strings.TrimSuffix(path, ext))
		if err != nil {
			return err
		}
		id := ID(filepath.ToSlash(rel))
		if filter(id, ctype) {
			matches = append(matches, &dirEntry{root: r, id: id, ctype: ctype, path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Contains reports whether the entry was produced by this root.
func (r *DirRoot) Contains(e Entry) (bool, error) {
	d, ok := e.(*dirEntry)
	return ok && d.root == r, nil
}

type dirEntry struct {
	root  *DirRoot
	id    ID
	ctype Type
	path  string
}

func (e *dirEntry) ID() ID            { return e.id }
func (e *dirEntry) ContentType() Type { return e.ctype }
func (e *dirEntry) Location() string  { return e.path }

func (e *dirEntry) LastModified() time.Time {
	info, err := os.Stat(e.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (e *dirEntry) Open() (io.ReadCloser, error) {
	return os.Open(e.path)
}

func (e *dirEntry) Create() (io.WriteCloser, error) {
	return os.Create(e.path)
}

func (e *dirEntry) String() string {
	return e.path
}
