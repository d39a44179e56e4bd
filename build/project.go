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

// Package build turns source entries into derived artifacts by applying
// build rules until nothing new is produced. Rules filter a delta of
// changed entries down to the group they care about and hand that group to
// a task; whatever the tasks produce forms the next delta, so multi-stage
// pipelines (source to intermediate to binary) emerge from independent
// single-stage rules.
package build

import (
	"context"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/utting/WhileyCompilerCollection/vfs"
)

var log = commonlog.GetLogger("wy.build")

// Project holds the build rules for one body of code and runs them to
// completion. The zero value is usable; a Project must not be built from
// two goroutines at once.
type Project struct {
	// Rules are offered every delta, in order of appearance within a wave.
	Rules []Rule
	// MaxParallelism caps how many rules run concurrently within one wave.
	// If unspecified or set to a non-positive value, then
	// min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) is used.
	MaxParallelism int
	// Graph accumulates derivations recorded by tasks. Created on first
	// use when nil, and shared across successive builds otherwise.
	Graph *Graph
}

// Build applies the project's rules to the given sources, feeding newly
// produced entries back through the rules until a pass produces nothing
// further. It returns every entry built, in production order. The first
// rule error aborts the build and cancels the rules still running.
func (p *Project) Build(ctx context.Context, sources ...vfs.Entry) ([]vfs.Entry, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	if p.Graph == nil {
		p.Graph = NewGraph()
	}
	par := p.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}

	// Entries are deduplicated by key, not object identity, since roots may
	// hand out distinct handles for the same underlying content.
	seen := make(map[string]bool, len(sources))
	for _, e := range sources {
		seen[entryKey(e)] = true
	}

	var built []vfs.Entry
	delta := sources
	for wave := 0; len(delta) > 0; wave++ {
		log.Debugf("wave %d: %d entries against %d rules", wave, len(delta), len(p.Rules))
		results := make([][]vfs.Entry, len(p.Rules))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(par)
		for i, rule := range p.Rules {
			g.Go(func() error {
				out, err := rule.Apply(gctx, delta, p.Graph)
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []vfs.Entry
		for _, out := range results {
			for _, e := range out {
				key := entryKey(e)
				if seen[key] {
					continue
				}
				seen[key] = true
				next = append(next, e)
				built = append(built, e)
			}
		}
		delta = next
	}
	log.Infof("built %d entries from %d sources", len(built), len(sources))
	return built, nil
}
