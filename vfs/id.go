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

package vfs

import "strings"

// ID names an entry within a root as a slash-separated path, such as
// "std/collections/vector". IDs never carry a content-type suffix; the
// suffix belongs to the entry's [Type]. The empty ID addresses the root
// itself.
type ID string

// JoinID assembles an ID from individual path components.
func JoinID(components ...string) ID {
	return ID(strings.Join(components, "/"))
}

// Components splits the ID into its path components.
func (id ID) Components() []string {
	if id == "" {
		return nil
	}
	return strings.Split(string(id), "/")
}

// Last returns the final component of the ID, which for an entry is its
// unqualified name.
func (id ID) Last() string {
	if i := strings.LastIndexByte(string(id), '/'); i >= 0 {
		return string(id[i+1:])
	}
	return string(id)
}

// Parent returns the ID with its final component removed, or the empty ID
// when there is nothing left to remove.
func (id ID) Parent() ID {
	if i := strings.LastIndexByte(string(id), '/'); i >= 0 {
		return id[:i]
	}
	return ""
}

// Append extends the ID by one component.
func (id ID) Append(component string) ID {
	if id == "" {
		return ID(component)
	}
	return id + "/" + ID(component)
}

func (id ID) String() string {
	return string(id)
}
