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

package reporter

import (
	"errors"
	"sync"

	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/vfs"
)

// ErrInvalidSource is returned by [Handler.Err] when syntax errors were
// reported but every one of them was swallowed by the handler's reporter,
// so there is no more specific error to return.
var ErrInvalidSource = errors.New("build failed: invalid source")

// ErrorReporter receives each syntax error as it is reported. Returning a
// non-nil error aborts the build with that error; returning nil lets the
// build continue so further errors can be found.
type ErrorReporter func(*SyntaxError) error

// Handler accumulates the errors of one build. It is safe for concurrent
// use; build tasks running in parallel share a single handler. The first
// abort decision sticks: once a reporter has asked to abort, every further
// report returns that same error without consulting the reporter again.
type Handler struct {
	reporter ErrorReporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler returns a handler forwarding syntax errors to rep. A nil rep
// aborts on the first error reported.
func NewHandler(rep ErrorReporter) *Handler {
	return &Handler{reporter: rep}
}

// HandleErrorf reports a syntax error at the given item, as [Errorf] builds
// it. The returned error is nil when the build should continue.
func (h *Handler) HandleErrorf(entry vfs.Entry, item heap.Item, format string, args ...any) error {
	return h.HandleError(Errorf(entry, item, format, args...))
}

// HandleError reports an error found during a build. Syntax errors go
// through the handler's reporter, which decides whether to abort; any other
// error aborts immediately. The returned error is nil when the build should
// continue, and the abort error otherwise.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		h.errsReported = true
		if h.reporter != nil {
			err = h.reporter(se)
		}
	}
	h.err = err
	return err
}

// Err returns the build outcome: nil when nothing was reported, the abort
// error when a report aborted the build, and [ErrInvalidSource] when errors
// were reported but all of them were swallowed by the reporter.
func (h *Handler) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}
