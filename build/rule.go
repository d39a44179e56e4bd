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
	"context"

	"github.com/utting/WhileyCompilerCollection/vfs"
)

// SourceTarget pairs one matched source entry with the root its outputs
// should be placed into.
type SourceTarget struct {
	Source vfs.Entry
	Target vfs.Root
}

// Task performs the actual work of a build rule, transforming a group of
// matched sources into derived entries.
type Task interface {
	// Build processes the group and returns the entries actually produced.
	// Implementations record a derivation edge in graph for each output
	// they create, and honour cancellation of ctx.
	Build(ctx context.Context, group []SourceTarget, graph *Graph) ([]vfs.Entry, error)
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func(ctx context.Context, group []SourceTarget, graph *Graph) ([]vfs.Entry, error)

func (f TaskFunc) Build(ctx context.Context, group []SourceTarget, graph *Graph) ([]vfs.Entry, error) {
	return f(ctx, group, graph)
}

// Rule decides which entries of a build delta it responds to, and invokes
// its task on those.
type Rule interface {
	// Apply examines the delta and returns the entries built from it,
	// empty when nothing in the delta concerns this rule.
	Apply(ctx context.Context, delta []vfs.Entry, graph *Graph) ([]vfs.Entry, error)
}

// StdRule is a straightforward yet flexible rule covering the common case:
// entries of one source root, selected by include and exclude filters, are
// handed as a single group to a task whose outputs land in a target root.
// A StdRule is immutable once constructed, although the roots and task it
// references may not be.
type StdRule struct {
	// Task builds the matched entries.
	Task Task
	// Source is the root whose entries this rule may build. Entries
	// belonging to any other root are ignored regardless of the filters.
	Source vfs.Root
	// Target is the root into which built entries are placed; it is handed
	// to the task alongside each matched source.
	Target vfs.Root
	// Includes selects which entries of the source root are built. A nil
	// filter matches every entry.
	Includes vfs.Filter
	// Excludes vetoes entries that Includes accepted. A nil filter
	// excludes nothing.
	Excludes vfs.Filter
}

// Apply filters the delta and, when anything matched, invokes the task on
// the whole matching group at once. When nothing matched the task is not
// invoked and the result is empty.
func (r *StdRule) Apply(ctx context.Context, delta []vfs.Entry, graph *Graph) ([]vfs.Entry, error) {
	var matches []SourceTarget
	for _, e := range delta {
		ok, err := r.Source.Contains(e)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if r.Includes != nil && !r.Includes(e.ID(), e.ContentType()) {
			continue
		}
		if r.Excludes != nil && r.Excludes(e.ID(), e.ContentType()) {
			continue
		}
		matches = append(matches, SourceTarget{Source: e, Target: r.Target})
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return r.Task.Build(ctx, matches, graph)
}
