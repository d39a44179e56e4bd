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

// wy is the command-line front end of the collection. It loads the global
// configuration from WHILEYHOME, activates any configured plugins and
// dispatches to a registered command. Options take the form --name or
// --name=value; those before the command configure the tool, those after it
// configure the command.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/utting/WhileyCompilerCollection/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	home := os.Getenv("WHILEYHOME")
	if home == "" {
		fmt.Fprintln(stderr, "error: WHILEYHOME environment variable not set")
		return 1
	}
	tool := newTool(home, stdout, stderr)
	if err := loadGlobalConfig(tool); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	activatePlugins(tool)

	// Walk the arguments, accumulating configuration errors rather than
	// stopping at the first: the user gets to see all of them, and nothing
	// is executed once any occurred.
	var (
		cmd     *Command
		cmdOpts = new(config.Map)
		cmdArgs []string
		ok      = true
	)
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--"):
			key, value, err := parseOption(arg)
			if err == nil {
				if cmd == nil {
					err = tool.schema.Set(tool.global, key, value)
				} else {
					err = cmd.Schema.Set(cmdOpts, key, value)
				}
			}
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				ok = false
			}
		case cmd == nil:
			if cmd = tool.lookup(arg); cmd == nil {
				fmt.Fprintf(stderr, "error: unknown command %q\n", arg)
				ok = false
			}
		default:
			cmdArgs = append(cmdArgs, arg)
		}
	}
	if !ok {
		return 1
	}

	verbosity := 0
	if v, present := tool.global.Get("verbose"); present && v.Bool() {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	if cmd == nil {
		tool.printHelp()
		return 0
	}
	if err := cmd.Run(tool, cmdOpts, cmdArgs); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// parseOption splits "--name" or "--name=value" into a key and a typed
// value. A bare flag reads as true.
func parseOption(arg string) (string, config.Value, error) {
	name, text, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	if !found {
		return name, config.BoolValue(true), nil
	}
	value, err := config.Parse(text)
	return name, value, err
}

// loadGlobalConfig overlays $WHILEYHOME/config.toml onto the tool defaults.
// A missing file is reported but tolerated; a malformed one is fatal. Keys
// the tool schema does not know are left alone, since plugins and commands
// may keep sections of their own there.
func loadGlobalConfig(t *Tool) error {
	loaded, err := config.LoadFile(filepath.Join(t.home, "config.toml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(t.stderr, "Unable to read global configuration file")
			return nil
		}
		return err
	}
	for _, p := range loaded.Match("**") {
		if !t.schema.Knows(p.Key) {
			continue
		}
		if err := t.schema.Set(t.global, p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// activatePlugins runs the activator named by each plugins/* binding in the
// global configuration. Failures are reported but do not stop the tool; the
// built-in commands remain usable either way.
func activatePlugins(t *Tool) {
	for _, p := range t.global.Match("plugins/**") {
		name := p.Value.String()
		act, ok := activators[name]
		if !ok {
			fmt.Fprintf(t.stderr, "error: unknown plugin activator %q\n", name)
			continue
		}
		if err := act(t); err != nil {
			fmt.Fprintf(t.stderr, "error: activating %s: %v\n", p.Key, err)
		}
	}
}
