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

package build

import (
	"fmt"
	"io"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/utting/WhileyCompilerCollection/vfs"
)

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("build: cbor enc mode: %v", err))
	}
	snapshotEncMode = em
}

// entryKey names an entry stably across runs and across distinct handles to
// the same content. The location distinguishes roots, the suffix
// distinguishes content types sharing an ID.
func entryKey(e vfs.Entry) string {
	return e.Location() + ":" + e.ContentType().Suffix
}

// Snapshot captures the observable result of a build: when each entry was
// last modified and what each artifact was derived from. Encoded with
// canonical CBOR, so equal states serialize to equal bytes.
type Snapshot struct {
	// ModTimes maps entry keys to the modification time observed when the
	// snapshot was taken, in Unix nanoseconds.
	ModTimes map[string]int64 `cbor:"modtimes"`
	// Derivations maps each built entry's key to the sorted keys of the
	// entries it was derived from.
	Derivations map[string][]string `cbor:"derivations"`
}

// TakeSnapshot records the modification times of the given entries together
// with the derivations accumulated in graph. A nil graph yields a snapshot
// with no derivations.
func TakeSnapshot(entries []vfs.Entry, graph *Graph) *Snapshot {
	s := &Snapshot{
		ModTimes:    make(map[string]int64, len(entries)),
		Derivations: make(map[string][]string),
	}
	for _, e := range entries {
		s.ModTimes[entryKey(e)] = e.LastModified().UnixNano()
	}
	if graph != nil {
		for child, parents := range graph.Derivations() {
			keys := make([]string, len(parents))
			for i, p := range parents {
				keys[i] = entryKey(p)
			}
			slices.Sort(keys)
			s.Derivations[entryKey(child)] = keys
		}
	}
	return s
}

// Encode writes the snapshot to w.
func (s *Snapshot) Encode(w io.Writer) error {
	data, err := snapshotEncMode.Marshal(s)
	if err != nil {
		return fmt.Errorf("build: encode snapshot: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeSnapshot reads a snapshot previously written by Encode.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("build: decode snapshot: %w", err)
	}
	return &s, nil
}

// Changed returns the subset of entries modified since the snapshot was
// taken, including any entry the snapshot has never seen.
func (s *Snapshot) Changed(entries []vfs.Entry) []vfs.Entry {
	var changed []vfs.Entry
	for _, e := range entries {
		then, ok := s.ModTimes[entryKey(e)]
		if !ok || e.LastModified().UnixNano() > then {
			changed = append(changed, e)
		}
	}
	return changed
}
