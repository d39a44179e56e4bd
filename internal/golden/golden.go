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

// Package golden runs file-based test corpora: each input file under a
// corpus root is one test case, and each case owns one golden file per
// declared output. Setting the refresh variable to a glob regenerates the
// golden files for the matching cases instead of comparing against them.
package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a file-based test corpus: table-driven tests whose table
// is a directory tree.
type Corpus struct {
	// Root of the corpus, relative to the file calling [Corpus.Run].
	Root string

	// Refresh names an environment variable. When set, its value is a glob
	// over test names; golden files of matching cases are rewritten and the
	// run fails, as a reminder that nothing was verified.
	Refresh string

	// Extensions of files (without the dot) that define a test case.
	Extensions []string

	// Outputs owned by each test case.
	Outputs []Output
}

// Output is one golden file attached to a test case, stored next to the
// case's input file with its extension appended.
type Output struct {
	// Extension appended to the input file name, e.g. "stderr" pairs
	// "case.wy" with "case.wy.stderr".
	Extension string

	// Compare overrides byte-for-byte comparison. It returns "" when got
	// and want agree, anything else is the failure message.
	Compare func(got, want string) string
}

// Run locates every test case under the corpus root and runs test on each.
// The callback receives the case's path and contents and fills outputs,
// one string per declared [Output]; a missing golden file is an empty want.
func (c Corpus) Run(t *testing.T, test func(t *testing.T, path, text string, outputs []string)) {
	dir := callerDir()
	root := filepath.Join(dir, c.Root)

	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(c.Extensions, strings.TrimPrefix(filepath.Ext(p), ".")) {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("golden: error while walking %q: %v", root, err)
	}

	refresh := os.Getenv(c.Refresh)
	if refresh != "" {
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("golden: invalid refresh glob %q", refresh)
		}
		t.Logf("golden: refreshing goldens because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range cases {
		name, err := filepath.Rel(dir, path)
		if err != nil {
			t.Fatalf("golden: %v", err)
		}
		t.Run(name, func(t *testing.T) {
			text, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("golden: error while reading input %q: %v", path, err)
			}

			outputs := make([]string, len(c.Outputs))
			test(t, name, string(text), outputs)

			refreshThis := false
			if refresh != "" {
				refreshThis, _ = doublestar.Match(refresh, name)
			}
			for i, output := range c.Outputs {
				path := fmt.Sprint(path, ".", output.Extension)
				if refreshThis {
					c.refresh(t, path, outputs[i])
					continue
				}

				want, err := os.ReadFile(path)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("golden: error while reading golden %q: %v", path, err)
					continue
				}
				compare := output.Compare
				if compare == nil {
					compare = diff
				}
				if failure := compare(outputs[i], string(want)); failure != "" {
					t.Errorf("golden: mismatch for %q:\n%s", path, failure)
				}
			}
		})
	}
}

// refresh rewrites one golden file, deleting it when the output is empty.
func (c Corpus) refresh(t *testing.T, path, output string) {
	if output == "" {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("golden: error while deleting golden %q: %v", path, err)
		}
		return
	}
	if err := os.WriteFile(path, []byte(output), 0o666); err != nil {
		t.Errorf("golden: error while writing golden %q: %v", path, err)
	}
}

func diff(got, want string) string {
	if got == want {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return text
}

// callerDir resolves the directory of the test file invoking [Corpus.Run],
// so corpus roots can be spelled relative to their test.
func callerDir() string {
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		panic("golden: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
