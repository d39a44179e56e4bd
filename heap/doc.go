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

// Package heap provides the syntactic heap, the in-memory substrate on which
// every compiler phase operates. A heap is an append-only arena of syntactic
// items addressed by stable integer indices, together with a distinguished
// root item. Items reference one another through operand slots, forming a
// graph in which sharing is intentional and must survive structural edits.
//
// The package supplies three families of algorithms over that graph:
//
//   - allocation ([Heap.Allocate], [Allocator]), which migrates an item and
//     everything it references into a heap, copying each source item at most
//     once;
//   - cloning and substitution ([Clone], [CloneOnly], [Substitute]), which
//     produce structurally edited copies while preserving sharing through
//     identity maps and returning the original reference when nothing
//     changed;
//   - queries ([All], [Parent], [Ancestor]), which locate items by kind or
//     by containment.
//
// None of the algorithms supports cyclic item graphs; a true cycle leads to
// non-termination. Heaps and items are not safe for concurrent use; distinct
// heaps may be used from distinct goroutines freely.
package heap
