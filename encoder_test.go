//  Copyright (c) 2017 Couchbase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// 		http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quill

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiledBinary(t *testing.T) *Graph {
	g, err := binaryRules(t, nil).Compile("01d")
	require.NoError(t, err)
	return g
}

func assertSameGraph(t *testing.T, want, got *Graph) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	assert.Equal(t, want.Start(), got.Start())
	assert.Equal(t, want.Alphabet(), got.Alphabet())
	for i, ws := range want.States() {
		gs := got.States()[i]
		assert.Equal(t, ws.Name(), gs.Name())
		assert.Equal(t, ws.Accepting(), gs.Accepting())
		assert.Equal(t, ws.Table(), gs.Table())
		wfb, wok := ws.Fallback()
		gfb, gok := gs.Fallback()
		assert.Equal(t, wok, gok)
		assert.Equal(t, wfb.ID(), gfb.ID())
	}
}

func TestEncodeLoad(t *testing.T) {
	for name, g := range map[string]*Graph{
		"compiled rules":   compiledBinary(t),
		"strict table":     binaryTable(t, false),
		"fallback table":   binaryTable(t, true),
		"multibyte states": multibyteGraph(t),
	} {
		var buf bytes.Buffer
		require.NoError(t, Encode(g, &buf), name)

		got, err := Load(buf.Bytes())
		require.NoError(t, err, name)
		assertSameGraph(t, g, got)
	}
}

func multibyteGraph(t *testing.T) *Graph {
	b := NewBuilder(&BuilderOpts{Alphabet: "αβ世"})
	start := b.AddState("début")
	end := b.AddState("終")
	require.NoError(t, b.SetTable(start, Edges("αβ", start).With("世", end)))
	require.NoError(t, b.SetTable(end, Table{}))
	require.NoError(t, b.SetFallback(end, end))
	require.NoError(t, b.SetEntry(start))
	require.NoError(t, b.SetAccepting(end))
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestEncodeSharesRows(t *testing.T) {
	b := NewBuilder(nil)
	var ids []StateID
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, b.AddState(name))
	}
	for _, id := range ids {
		require.NoError(t, b.SetTable(id, Edges("xyz", ids[0]).With("0123456789", ids[1])))
	}
	g, err := b.Build()
	require.NoError(t, err)

	var shared bytes.Buffer
	require.NoError(t, Encode(g, &shared))

	got, err := Load(shared.Bytes())
	require.NoError(t, err)
	assertSameGraph(t, g, got)

	// one inline row of 13 pairs, three one byte references
	var one bytes.Buffer
	single := NewBuilder(nil)
	a := single.AddState("a")
	require.NoError(t, single.SetTable(a, Edges("xyz", a).With("0123456789", a)))
	sg, err := single.Build()
	require.NoError(t, err)
	require.NoError(t, Encode(sg, &one))
	assert.Less(t, shared.Len(), 2*one.Len())
}

func TestEncodeRuleStates(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(binaryRules(t, nil), &buf)
	assert.ErrorIs(t, err, ErrNotEncodable)
}

func TestEncodeUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeVersion(binaryTable(t, true), &buf, 9)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestLoadCorrupt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(binaryTable(t, true), &buf))
	valid := buf.Bytes()

	tests := []struct {
		desc   string
		mangle func(data []byte) []byte
	}{
		{
			desc:   "too short",
			mangle: func(data []byte) []byte { return data[:20] },
		},
		{
			desc: "wrong type",
			mangle: func(data []byte) []byte {
				binary.LittleEndian.PutUint64(data[8:], 7)
				return data
			},
		},
		{
			desc: "state count too large",
			mangle: func(data []byte) []byte {
				binary.LittleEndian.PutUint64(data[len(data)-16:], 1<<40)
				return data
			},
		},
		{
			desc: "no states",
			mangle: func(data []byte) []byte {
				binary.LittleEndian.PutUint64(data[len(data)-16:], 0)
				return data
			},
		},
		{
			desc: "entry out of range",
			mangle: func(data []byte) []byte {
				binary.LittleEndian.PutUint64(data[len(data)-8:], 5)
				return data
			},
		},
		{
			desc: "trailing bytes",
			mangle: func(data []byte) []byte {
				footer := append([]byte(nil), data[len(data)-16:]...)
				rv := append(append([]byte(nil), data[:len(data)-16]...), 0, 0)
				return append(rv, footer...)
			},
		},
	}
	for _, test := range tests {
		data := test.mangle(append([]byte(nil), valid...))
		_, err := Load(data)
		assert.ErrorIs(t, err, ErrCorrupt, test.desc)
	}

	bad := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint64(bad, 9)
	_, err := Load(bad)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestEncodeFileOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.qfa")
	g := compiledBinary(t)
	require.NoError(t, EncodeFile(g, path))

	got, err := Open(path)
	require.NoError(t, err)
	assertSameGraph(t, g, got)

	final, err := Run(got.Entry(), "01d")
	require.NoError(t, err)
	assert.Equal(t, "error", final.Name())

	_, err = Open(filepath.Join(t.TempDir(), "missing.qfa"))
	assert.Error(t, err)

	small := filepath.Join(t.TempDir(), "small.qfa")
	require.NoError(t, EncodeFile(g, small))
	require.NoError(t, os.Truncate(small, 4))
	_, err = Open(small)
	assert.ErrorIs(t, err, ErrCorrupt)
}
