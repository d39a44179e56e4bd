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

// Package config provides typed configuration for the tool: an ordered
// key/value store, schema validation of keys against glob patterns, and a
// TOML loader which flattens nested tables into slash-separated keys such as
// "plugins/wyc".
package config

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the type of datum a [Value] holds.
type Kind int

const (
	// String values are arbitrary text.
	String Kind = iota
	// Bool values are written "true" or "false".
	Bool
	// Int values are signed 64-bit integers.
	Int
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single typed configuration datum: a string, a bool or an int.
// The zero value is the empty string.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

// StringValue returns a Value holding s.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// BoolValue returns a Value holding b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue returns a Value holding i.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// Kind reports which kind of datum v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean held by v, which must have kind [Bool].
func (v Value) Bool() bool {
	if v.kind != Bool {
		panic("config: value is not a bool")
	}
	return v.b
}

// Int returns the integer held by v, which must have kind [Int].
func (v Value) Int() int64 {
	if v.kind != Int {
		panic("config: value is not an int")
	}
	return v.i
}

// String renders v the way it would be written on a command line: "true" or
// "false" for bools, decimal digits for ints and the raw text for strings.
func (v Value) String() string {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// Parse types raw option text the way the command line does: "true" and
// "false" become bools, text with a leading digit must parse as an integer,
// and anything else is a string. Note that a leading sign makes a string, so
// negative numbers cannot be written on the command line.
func Parse(text string) (Value, error) {
	first, _ := utf8.DecodeRuneInString(text)
	switch {
	case text == "true":
		return BoolValue(true), nil
	case text == "false":
		return BoolValue(false), nil
	case unicode.IsDigit(first):
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer %q", text)
		}
		return IntValue(n), nil
	default:
		return StringValue(text), nil
	}
}
