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
	"fmt"
	"io"
	"os"

	"github.com/utting/WhileyCompilerCollection/config"
	"github.com/utting/WhileyCompilerCollection/heap/item"
	"github.com/utting/WhileyCompilerCollection/heapio"
)

// inspectCommand decodes syntactic heap binaries and prints their items.
func inspectCommand() *Command {
	return &Command{
		Name:        "inspect",
		Description: "print the items of a syntactic heap binary",
		Schema:      config.NewSchema(),
		Run: func(t *Tool, _ *config.Map, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: wy inspect <file>...")
			}
			for _, path := range args {
				if err := inspectFile(t.stdout, path, len(args) > 1); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func inspectFile(w io.Writer, path string, banner bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h, err := heapio.NewReader(f, item.Format).Read()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if banner {
		fmt.Fprintf(w, "=== %s\n", path)
	}
	return h.Print(w)
}
