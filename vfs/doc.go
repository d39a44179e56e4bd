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

// Package vfs provides the path and content abstraction through which build
// tasks locate their sources and deposit their targets. A [Root] is a
// collection of entries addressed by slash-separated [ID]s, each entry
// carrying a content [Type] resolved from its file suffix. Two
// implementations are provided: [DirRoot], backed by a directory on the
// local filesystem, and [VirtualRoot], which keeps entries in memory and is
// the usual home for intermediate artifacts that need not outlive the build.
package vfs
