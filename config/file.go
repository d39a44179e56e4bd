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
	"os"

	"github.com/BurntSushi/toml"
)

// Load parses TOML configuration text into a map, flattening nested tables
// into slash-separated keys:
//
//	[plugins]
//	wyc = "wyc/Activator"
//
// yields the binding plugins/wyc. Only boolean, integer and string values
// are accepted; arrays, floats and dates are rejected with a [*Error].
func Load(data []byte) (*Map, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	m := new(Map)
	if err := flatten(m, "", raw); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads and flattens the TOML file at path.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Load(data)
}

func flatten(m *Map, prefix string, table map[string]any) error {
	for name, raw := range table {
		key := name
		if prefix != "" {
			key = prefix + "/" + name
		}
		switch v := raw.(type) {
		case map[string]any:
			if err := flatten(m, key, v); err != nil {
				return err
			}
		case bool:
			m.Set(key, BoolValue(v))
		case int64:
			m.Set(key, IntValue(v))
		case string:
			m.Set(key, StringValue(v))
		default:
			return &Error{Key: key, Msg: fmt.Sprintf("unsupported value of type %T", raw)}
		}
	}
	return nil
}
