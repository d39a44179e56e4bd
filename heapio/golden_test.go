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

package heapio_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/utting/WhileyCompilerCollection/heap"
	"github.com/utting/WhileyCompilerCollection/heap/item"
	"github.com/utting/WhileyCompilerCollection/heapio"
	"github.com/utting/WhileyCompilerCollection/internal/golden"
)

// heapFixture is the YAML description of one heap: a flat item table in
// index order, wired together by operand indices.
type heapFixture struct {
	Root  int `yaml:"root"`
	Items []struct {
		Op       string `yaml:"op"`                 // schema mnemonic
		Operands []int  `yaml:"operands,omitempty"` // indices into the table
		Data     string `yaml:"data,omitempty"`     // payload as hex
		Text     string `yaml:"text,omitempty"`     // payload as text
	} `yaml:"items"`
}

// TestGolden pins the wire format: each fixture is encoded, the stream is
// compared byte for byte, then decoded again and compared as a listing.
func TestGolden(t *testing.T) {
	t.Parallel()
	corpus := golden.Corpus{
		Root:       "testdata",
		Refresh:    "WY_REFRESH",
		Extensions: []string{"yaml"},
		Outputs: []golden.Output{
			{Extension: "hex"},
			{Extension: "print"},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		var fixture heapFixture
		require.NoError(t, yaml.Unmarshal([]byte(text), &fixture))

		items := make([]heap.Item, len(fixture.Items))
		for i, f := range fixture.Items {
			opcode, schema := schemaFor(t, f.Op)
			data := []byte(f.Text)
			if f.Data != "" {
				var err error
				data, err = hex.DecodeString(f.Data)
				require.NoError(t, err)
			}
			items[i] = schema.Construct(opcode, make([]heap.Item, len(f.Operands)), data)
		}
		for i, f := range fixture.Items {
			for slot, operand := range f.Operands {
				items[i].SetOperand(slot, items[operand])
			}
		}
		h := heap.FromItems(items, fixture.Root)

		var buf bytes.Buffer
		require.NoError(t, heapio.NewWriter(&buf, item.Format).Write(h))
		outputs[0] = hex.EncodeToString(buf.Bytes()) + "\n"

		decoded, err := heapio.NewReader(&buf, item.Format).Read()
		require.NoError(t, err)
		var listing strings.Builder
		require.NoError(t, decoded.Print(&listing))
		outputs[1] = listing.String()
	})
}

func schemaFor(t *testing.T, mnemonic string) (heap.Opcode, heap.Schema) {
	for op, schema := range item.Schemas {
		if schema.Mnemonic == mnemonic {
			return heap.Opcode(op), schema
		}
	}
	t.Fatalf("no schema named %q", mnemonic)
	return 0, heap.Schema{}
}
