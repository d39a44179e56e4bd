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

	"github.com/utting/WhileyCompilerCollection/config"
)

// Tool aggregates the pieces every command needs: where the tool lives, the
// registered commands, the effective global configuration and the output
// streams.
type Tool struct {
	home     string
	stdout   io.Writer
	stderr   io.Writer
	commands []*Command
	schema   *config.Schema
	global   *config.Map
}

// Command is one verb of the wy tool, such as "build".
type Command struct {
	// Name selects the command on the command line.
	Name string
	// Description is the summary line printed by help.
	Description string
	// Schema declares the --options accepted after the command's name.
	Schema *config.Schema
	// Run executes the command. opts holds the options given on the command
	// line, args the remaining non-option arguments.
	Run func(t *Tool, opts *config.Map, args []string) error
}

// Activator installs one plugin into the tool, typically by registering
// extra commands. Activators are statically registered under a name; the
// plugins section of the global configuration chooses which of them run.
type Activator func(t *Tool) error

var activators = map[string]Activator{}

func newTool(home string, stdout, stderr io.Writer) *Tool {
	verbose := config.BoolValue(false)
	t := &Tool{
		home:   home,
		stdout: stdout,
		stderr: stderr,
		schema: config.NewSchema(
			config.KeySpec{Pattern: "verbose", Kind: config.Bool, Description: "enable verbose output", Default: &verbose},
			config.KeySpec{Pattern: "plugins/**", Kind: config.String},
		),
	}
	t.global = t.schema.Defaults()
	t.Register(buildCommand())
	t.Register(configCommand())
	t.Register(helpCommand())
	t.Register(inspectCommand())
	return t
}

// Register adds a command to the tool, replacing any previous command with
// the same name.
func (t *Tool) Register(c *Command) {
	for i, old := range t.commands {
		if old.Name == c.Name {
			t.commands[i] = c
			return
		}
	}
	t.commands = append(t.commands, c)
}

func (t *Tool) lookup(name string) *Command {
	for _, c := range t.commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Tool) printHelp() {
	fmt.Fprintln(t.stdout, "usage: wy [--option[=value]] <command> [--option[=value]] [args]")
	fmt.Fprintln(t.stdout)
	fmt.Fprintln(t.stdout, "Commands:")
	for _, c := range t.commands {
		fmt.Fprintf(t.stdout, "  %-10s %s\n", c.Name, c.Description)
	}
	fmt.Fprintln(t.stdout)
	fmt.Fprintln(t.stdout, "Options:")
	for _, sp := range t.schema.Specs() {
		if sp.Description == "" {
			continue
		}
		fmt.Fprintf(t.stdout, "  --%-10s %s\n", sp.Pattern, sp.Description)
	}
}

func helpCommand() *Command {
	return &Command{
		Name:        "help",
		Description: "display help information",
		Schema:      config.NewSchema(),
		Run: func(t *Tool, _ *config.Map, _ []string) error {
			t.printHelp()
			return nil
		},
	}
}

// configCommand inspects the effective tool configuration.
func configCommand() *Command {
	return &Command{
		Name:        "config",
		Description: "inspect tool configuration",
		Schema:      config.NewSchema(),
		Run: func(t *Tool, _ *config.Map, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(t.stdout, "usage: wy config list")
				return nil
			}
			switch args[0] {
			case "list":
				for _, p := range t.global.Match("**") {
					fmt.Fprintf(t.stdout, "%s=%s\n", p.Key, p.Value)
				}
				return nil
			default:
				return fmt.Errorf("unknown config command %q", args[0])
			}
		},
	}
}
