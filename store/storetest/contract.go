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

// Package storetest provides the behaviour every store.Store must have.
package storetest

import (
	"context"
	"testing"

	"github.com/couchbase/quill/grammar"
	"github.com/couchbase/quill/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Binary returns the description of the binary digit recognizer.
func Binary() *grammar.Description {
	return &grammar.Description{
		Name:      "binary",
		Entry:     "digit",
		Alphabet:  "01d",
		Accepting: []string{"digit"},
		States: []grammar.State{
			{Name: "digit", Edges: map[string]string{"01": "digit"}, Default: "error"},
			{Name: "error", Default: "error"},
		},
	}
}

// RunContract exercises s.  The store must be empty.
func RunContract(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("InvalidName", func(t *testing.T) {
		err := s.Save(ctx, "../escape", Binary())
		assert.ErrorIs(t, err, store.ErrInvalidName)
	})

	t.Run("SaveLoadDelete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "binary", Binary()))

		got, err := s.Load(ctx, "binary")
		require.NoError(t, err)
		assert.Equal(t, Binary(), got)

		g, err := got.Build(nil)
		require.NoError(t, err)
		ok, err := g.Accepts("0110")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, s.Delete(ctx, "binary"))
		_, err = s.Load(ctx, "binary")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "binary"), store.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "b", Binary()))
		require.NoError(t, s.Save(ctx, "a", Binary()))
		require.NoError(t, s.Save(ctx, "a", Binary()))

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)

		require.NoError(t, s.Delete(ctx, "a"))
		require.NoError(t, s.Delete(ctx, "b"))
		names, err = s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
