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
	"slices"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
)

// Error reports a rejected configuration update, such as setting an unknown
// key or giving a key a value of the wrong kind.
type Error struct {
	// Key is the offending configuration key.
	Key string
	// Msg says what was wrong with the update.
	Msg string
}

func (e *Error) Error() string {
	return "configuration key " + strconv.Quote(e.Key) + ": " + e.Msg
}

// KeySpec describes the values one configuration key, or a glob family of
// keys, may take.
type KeySpec struct {
	// Pattern names the covered key(s) in doublestar syntax, e.g. "verbose"
	// or "plugins/**".
	Pattern string
	// Kind every matching value must have.
	Kind Kind
	// Description is a short line of help text.
	Description string
	// Default, when non-nil, is bound under Pattern by [Schema.Defaults].
	// Defaults only make sense on literal patterns.
	Default *Value
}

// Schema is the set of known configuration keys for one scope, such as the
// tool itself or a single command.
type Schema struct {
	specs []KeySpec
}

// NewSchema returns a schema accepting the given keys. It panics if any key
// pattern is malformed.
func NewSchema(specs ...KeySpec) *Schema {
	for _, spec := range specs {
		if !doublestar.ValidatePattern(spec.Pattern) {
			panic(fmt.Sprintf("config: invalid key pattern %q", spec.Pattern))
		}
	}
	return &Schema{specs: specs}
}

// Specs returns the key specifications in declaration order.
func (s *Schema) Specs() []KeySpec {
	return slices.Clone(s.specs)
}

// Knows reports whether key matches any specification.
func (s *Schema) Knows(key string) bool {
	_, ok := s.spec(key)
	return ok
}

// spec returns the first specification matching key.
func (s *Schema) spec(key string) (KeySpec, bool) {
	for _, sp := range s.specs {
		if ok, _ := doublestar.Match(sp.Pattern, key); ok {
			return sp, true
		}
	}
	return KeySpec{}, false
}

// Defaults returns a fresh map holding every default value the schema
// declares.
func (s *Schema) Defaults() *Map {
	m := new(Map)
	for _, sp := range s.specs {
		if sp.Default != nil {
			m.Set(sp.Pattern, *sp.Default)
		}
	}
	return m
}

// Set validates key and value against the schema and, when both are
// acceptable, binds them in m. The returned error, when non-nil, is a
// [*Error] naming the offending key.
func (s *Schema) Set(m *Map, key string, value Value) error {
	sp, ok := s.spec(key)
	if !ok {
		return &Error{Key: key, Msg: "unknown key"}
	}
	if sp.Kind != value.Kind() {
		return &Error{Key: key, Msg: fmt.Sprintf("expects %s, got %s", sp.Kind, value.Kind())}
	}
	m.Set(key, value)
	return nil
}
