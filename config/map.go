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

package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/btree"
)

// Pair is one key/value binding in a [Map].
type Pair struct {
	Key   string
	Value Value
}

// Map is an ordered configuration store. Keys are slash-separated paths such
// as "plugins/wyc" and bindings are kept in key order. The zero value is an
// empty map ready to use. A Map is not safe for concurrent use.
type Map struct {
	entries btree.Map[string, Value]
}

// Set binds key to value, replacing any previous binding. No validation is
// performed; see [Schema.Set] for checked updates.
func (m *Map) Set(key string, value Value) {
	m.entries.Set(key, value)
}

// Get returns the value bound to key, if any.
func (m *Map) Get(key string) (Value, bool) {
	return m.entries.Get(key)
}

// Len reports the number of bindings.
func (m *Map) Len() int {
	return m.entries.Len()
}

// Match returns the bindings whose keys match the given pattern, which may
// use doublestar syntax, in key order. Match panics if the pattern is
// malformed.
func (m *Map) Match(pattern string) []Pair {
	if !doublestar.ValidatePattern(pattern) {
		panic(fmt.Sprintf("config: invalid glob pattern %q", pattern))
	}
	var pairs []Pair
	m.entries.Scan(func(key string, value Value) bool {
		if ok, _ := doublestar.Match(pattern, key); ok {
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
		return true
	})
	return pairs
}
