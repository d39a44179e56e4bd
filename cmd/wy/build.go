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

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/utting/WhileyCompilerCollection/build"
	"github.com/utting/WhileyCompilerCollection/config"
	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/heap/item"
	"github.com/utting/WhileyCompilerCollection/heapio"
	"github.com/utting/WhileyCompilerCollection/reporter"
	"github.com/utting/WhileyCompilerCollection/vfs"
)

// Content types the build pipeline moves between.
var (
	wyType   = vfs.Type{Name: "whiley source", Suffix: "wy"}
	wyshType = vfs.Type{Name: "syntactic heap", Suffix: "wysh"}
	snapType = vfs.Type{Name: "build snapshot", Suffix: "snap"}
)

// projectSchema declares the keys a wy.toml project file may set.
func projectSchema() *config.Schema {
	name := config.StringValue("main")
	source := config.StringValue("src")
	target := config.StringValue("bin")
	return config.NewSchema(
		config.KeySpec{Pattern: "package/name", Kind: config.String, Default: &name},
		config.KeySpec{Pattern: "build/source", Kind: config.String, Default: &source},
		config.KeySpec{Pattern: "build/target", Kind: config.String, Default: &target},
	)
}

// buildCommand packages the source files of a wy.toml project into syntactic
// heap binaries under the target directory, recording a build snapshot
// alongside them.
func buildCommand() *Command {
	return &Command{
		Name:        "build",
		Description: "build a wy.toml project",
		Schema: config.NewSchema(
			config.KeySpec{Pattern: "source", Kind: config.String, Description: "override the source directory"},
			config.KeySpec{Pattern: "target", Kind: config.String, Description: "override the target directory"},
			config.KeySpec{Pattern: "brief", Kind: config.Bool, Description: "report errors in brief form"},
		),
		Run: runBuild,
	}
}

func runBuild(t *Tool, opts *config.Map, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	} else if len(args) > 1 {
		return fmt.Errorf("usage: wy build [dir]")
	}

	proj, err := loadProject(dir)
	if err != nil {
		return err
	}
	if v, ok := opts.Get("source"); ok {
		proj.Set("build/source", v)
	}
	if v, ok := opts.Get("target"); ok {
		proj.Set("build/target", v)
	}
	brief := false
	if v, ok := opts.Get("brief"); ok {
		brief = v.Bool()
	}

	registry := vfs.NewRegistry(wyType, wyshType, snapType)
	src := vfs.NewDirRoot(filepath.Join(dir, projectString(proj, "build/source")), registry)
	dst := vfs.NewDirRoot(filepath.Join(dir, projectString(proj, "build/target")), registry)

	handler := reporter.NewHandler(func(e *reporter.SyntaxError) error {
		if brief {
			return reporter.RenderBrief(t.stderr, e)
		}
		return reporter.Render(t.stderr, e)
	})

	sources, err := src.Match(vfs.Glob("**", wyType))
	if err != nil {
		return err
	}
	project := &build.Project{
		Rules: []build.Rule{
			&build.StdRule{
				Task:     packageTask{handler},
				Source:   src,
				Target:   dst,
				Includes: vfs.Glob("**", wyType),
			},
		},
	}
	built, err := project.Build(context.Background(), sources...)
	if err != nil {
		return err
	}
	if err := handler.Err(); err != nil {
		return err
	}

	snap := build.TakeSnapshot(append(sources, built...), project.Graph)
	out, err := dst.Create("build", snapType)
	if err != nil {
		return err
	}
	wc, err := out.Create()
	if err != nil {
		return err
	}
	if err := snap.Encode(wc); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	fmt.Fprintf(t.stdout, "built package %s (%d files)\n", projectString(proj, "package/name"), len(built))
	return nil
}

// loadProject reads dir/wy.toml against the project schema. Every project
// needs one; unknown or mistyped keys are configuration errors.
func loadProject(dir string) (*config.Map, error) {
	schema := projectSchema()
	proj := schema.Defaults()
	path := filepath.Join(dir, "wy.toml")
	loaded, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, p := range loaded.Match("**") {
		if err := schema.Set(proj, p.Key, p.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return proj, nil
}

func projectString(proj *config.Map, key string) string {
	v, _ := proj.Get(key)
	return v.String()
}

// packageTask archives each source file as a syntactic heap whose root pairs
// the module's name with the file's text. Sources must be valid UTF-8;
// anything else is reported as a syntax error against the offending byte.
type packageTask struct {
	handler *reporter.Handler
}

func (p packageTask) Build(ctx context.Context, group []build.SourceTarget, graph *build.Graph) ([]vfs.Entry, error) {
	var outputs []vfs.Entry
	for _, st := range group {
		data, err := vfs.ReadAll(st.Source)
		if err != nil {
			return nil, err
		}
		h, serr := packageSource(st.Source, data)
		if serr != nil {
			if err := p.handler.HandleError(serr); err != nil {
				return nil, err
			}
			continue
		}
		out, err := st.Target.Create(st.Source.ID(), wyshType)
		if err != nil {
			return nil, err
		}
		if err := writeHeap(out, h); err != nil {
			return nil, err
		}
		graph.Derive(st.Source, out)
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func packageSource(src vfs.Entry, data []byte) (*heap.Heap, *reporter.SyntaxError) {
	h := heap.New()
	if idx := invalidUTF8(data); idx >= 0 {
		bad := h.Allocate(item.NewIdentifier(src.ID().Last()))
		h.Allocate(item.NewSpan(bad, idx, idx))
		return nil, reporter.Errorf(src, bad, "source is not valid utf-8")
	}
	var ids []*item.Identifier
	for _, c := range src.ID().Components() {
		ids = append(ids, item.NewIdentifier(c))
	}
	h.SetRoot(item.NewPair(item.NewName(ids...), item.NewUTF8(string(data))))
	return h, nil
}

// invalidUTF8 returns the offset of the first invalid byte, or -1 when the
// data is well formed.
func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func writeHeap(e vfs.Entry, h *heap.Heap) error {
	wc, err := e.Create()
	if err != nil {
		return err
	}
	if err := heapio.NewWriter(wc, item.Format).Write(h); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
