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

package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utting/WhileyCompilerCollection/vfs"
)

func TestID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		id         vfs.ID
		components []string
		last       string
		parent     vfs.ID
	}{
		{"", nil, "", ""},
		{"main", []string{"main"}, "main", ""},
		{"std/collections/vector", []string{"std", "collections", "vector"}, "vector", "std/collections"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.components, tt.id.Components())
			assert.Equal(t, tt.last, tt.id.Last())
			assert.Equal(t, tt.parent, tt.id.Parent())
			assert.Equal(t, string(tt.id), tt.id.String())
		})
	}
}

func TestIDAppend(t *testing.T) {
	t.Parallel()
	assert.Equal(t, vfs.ID("main"), vfs.ID("").Append("main"))
	assert.Equal(t, vfs.ID("std/math"), vfs.ID("std").Append("math"))
	assert.Equal(t, vfs.ID("std/math"), vfs.JoinID("std", "math"))
	assert.Equal(t, vfs.ID(""), vfs.JoinID())
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	wy := vfs.Type{Name: "whiley source", Suffix: "wy"}
	reg := vfs.NewRegistry(wy)

	got, ok := reg.Lookup("wy")
	assert.True(t, ok)
	assert.Equal(t, wy, got)

	_, ok = reg.Lookup("txt")
	assert.False(t, ok)

	// Re-registering a suffix replaces the earlier type.
	wy2 := vfs.Type{Name: "revised", Suffix: "wy"}
	reg.Register(wy2)
	got, _ = reg.Lookup("wy")
	assert.Equal(t, wy2, got)
}

func TestGlob(t *testing.T) {
	t.Parallel()
	wy := vfs.Type{Name: "whiley source", Suffix: "wy"}
	wysh := vfs.Type{Name: "syntactic binary", Suffix: "wysh"}

	tests := []struct {
		name    string
		filter  vfs.Filter
		id      vfs.ID
		ctype   vfs.Type
		matches bool
	}{
		{"exact", vfs.Glob("pkg/main"), "pkg/main", wy, true},
		{"exact miss", vfs.Glob("pkg/main"), "pkg/other", wy, false},
		{"star stays shallow", vfs.Glob("*"), "pkg/main", wy, false},
		{"doublestar descends", vfs.Glob("**"), "pkg/sub/main", wy, true},
		{"suffix pattern", vfs.Glob("pkg/**/ma*"), "pkg/sub/main", wy, true},
		{"typed match", vfs.Glob("**", wy), "pkg/main", wy, true},
		{"typed miss", vfs.Glob("**", wy), "pkg/main", wysh, false},
		{"multiple types", vfs.Glob("**", wy, wysh), "pkg/main", wysh, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.matches, tt.filter(tt.id, tt.ctype))
		})
	}
}

func TestGlobRejectsBadPattern(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t, `vfs: invalid glob pattern "["`, func() {
		vfs.Glob("[")
	})
}

func TestOr(t *testing.T) {
	t.Parallel()
	wy := vfs.Type{Name: "whiley source", Suffix: "wy"}
	either := vfs.Or(vfs.Glob("a/**"), vfs.Glob("b/**"))

	assert.True(t, either("a/x", wy))
	assert.True(t, either("b/y", wy))
	assert.False(t, either("c/z", wy))
	assert.False(t, vfs.Or()("a/x", wy))
}
