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

package build

import (
	"slices"
	"sync"

	"github.com/utting/WhileyCompilerCollection/vfs"
)

// Graph records how build artifacts were derived: one edge per
// (parent, child) pair where child was built from parent. Both directions
// are queryable, so a consumer can ask what an artifact was made from as
// well as what a source contributed to. Safe for concurrent use; tasks
// running in parallel record into a shared graph.
type Graph struct {
	mu       sync.RWMutex
	parents  map[vfs.Entry][]vfs.Entry
	children map[vfs.Entry][]vfs.Entry
}

// NewGraph returns an empty derivation graph.
func NewGraph() *Graph {
	return &Graph{
		parents:  make(map[vfs.Entry][]vfs.Entry),
		children: make(map[vfs.Entry][]vfs.Entry),
	}
}

// Derive records that child was built from parent.
func (g *Graph) Derive(parent, child vfs.Entry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.parents[child] = append(g.parents[child], parent)
	g.children[parent] = append(g.children[parent], child)
}

// Parents returns the entries child was derived from, in recording order.
func (g *Graph) Parents(child vfs.Entry) []vfs.Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.parents[child])
}

// Children returns the entries derived from parent, in recording order.
func (g *Graph) Children(parent vfs.Entry) []vfs.Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.children[parent])
}

// Derivations returns a copy of the complete child-to-parents mapping.
func (g *Graph) Derivations() map[vfs.Entry][]vfs.Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[vfs.Entry][]vfs.Entry, len(g.parents))
	for child, parents := range g.parents {
		out[child] = slices.Clone(parents)
	}
	return out
}
