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

// Type describes one kind of content an entry may hold, such as source text
// or a compiled binary. Types are compared by value, so two independently
// constructed descriptors with the same fields denote the same content type.
type Type struct {
	// Name is a short human-readable description, e.g. "whiley source".
	Name string
	// Suffix is the file suffix used to recognise and store this content,
	// without the leading dot.
	Suffix string
}

func (t Type) String() string {
	return t.Suffix
}

// Registry maps file suffixes to the content types a tool understands. Roots
// backed by a filesystem consult it while discovering entries; files whose
// suffix is not registered are invisible to [Root.Match].
type Registry struct {
	bySuffix map[string]Type
}

// NewRegistry returns a registry holding the given types. Registering two
// types with the same suffix keeps the latter.
func NewRegistry(types ...Type) *Registry {
	r := &Registry{bySuffix: make(map[string]Type, len(types))}
	for _, t := range types {
		r.Register(t)
	}
	return r
}

// Register adds a content type to the registry.
func (r *Registry) Register(t Type) {
	r.bySuffix[t.Suffix] = t
}

// Lookup resolves a file suffix to its registered content type.
func (r *Registry) Lookup(suffix string) (Type, bool) {
	t, ok := r.bySuffix[suffix]
	return t, ok
}
