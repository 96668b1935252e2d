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
	"bufio"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryRules builds the binary digit recognizer with rule states.
func binaryRules(t testing.TB, opts *BuilderOpts) *Graph {
	t.Helper()
	b := NewBuilder(opts)
	digit := b.AddState("digit")
	errState := b.AddState("error")
	require.NoError(t, b.SetRule(digit, Rule{Match: OneOf("01", digit), Default: errState}))
	require.NoError(t, b.SetRule(errState, SelfLoop(errState)))
	require.NoError(t, b.SetAccepting(digit))
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

// binaryTable builds the binary digit recognizer with table states.
// Without a fallback unmapped symbols fault.
func binaryTable(t testing.TB, fallback bool) *Graph {
	t.Helper()
	b := NewBuilder(nil)
	digit := b.AddState("digit")
	errState := b.AddState("error")
	require.NoError(t, b.SetTable(digit, Edges("01", digit)))
	require.NoError(t, b.SetTable(errState, Table{}))
	require.NoError(t, b.SetFallback(errState, errState))
	if fallback {
		require.NoError(t, b.SetFallback(digit, errState))
	}
	require.NoError(t, b.SetAccepting(digit))
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestRunScenarios(t *testing.T) {
	graphs := map[string]*Graph{
		"rule":           binaryRules(t, nil),
		"rule alphabet":  binaryRules(t, &BuilderOpts{Alphabet: "01d"}),
		"table fallback": binaryTable(t, true),
	}
	tests := []struct {
		desc  string
		input string
		want  string
	}{
		{"valid digits", "00110110", "digit"},
		{"invalid symbol is not recovered from", "00110d110", "error"},
		{"empty input stays at entry", "", "digit"},
		{"invalid first symbol", "d", "error"},
		{"multibyte symbol", "01é", "error"},
	}
	for name, g := range graphs {
		for _, test := range tests {
			final, err := Run(g.Entry(), test.input)
			require.NoError(t, err, "%s: %s", name, test.desc)
			assert.Equal(t, test.want, final.Name(), "%s: %s", name, test.desc)
		}
	}
}

func TestRunTableFault(t *testing.T) {
	g := binaryTable(t, false)

	final, err := Run(g.Entry(), "00110d110")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnhandledSymbol)
	assert.False(t, final.Valid())

	var se *SymbolError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "digit", se.State)
	assert.Equal(t, 'd', se.Symbol)

	final, err = Run(g.Entry(), "0011")
	require.NoError(t, err)
	assert.Equal(t, "digit", final.Name())
}

func TestRunDeterminism(t *testing.T) {
	g := binaryRules(t, nil)
	for _, input := range []string{"", "0", "0101", "01x10", "xxxx", "1111111"} {
		first, err := Run(g.Entry(), input)
		require.NoError(t, err)
		second, err := Run(g.Entry(), input)
		require.NoError(t, err)
		assert.Equal(t, first.Name(), second.Name(), input)
		assert.Equal(t, first, second, input)
	}
}

func TestAbsorption(t *testing.T) {
	for name, g := range map[string]*Graph{
		"rule":  binaryRules(t, nil),
		"table": binaryTable(t, true),
	} {
		errState, ok := g.Lookup("error")
		require.True(t, ok)
		for _, r := range "01d \x00é世" {
			next, err := errState.Advance(r)
			require.NoError(t, err, name)
			assert.Equal(t, errState, next, "%s: %q", name, r)
		}
		final, err := Run(errState, "0101")
		require.NoError(t, err)
		assert.Equal(t, "error", final.Name(), name)
	}
}

func TestRunIdentityOnEmptyInput(t *testing.T) {
	for _, g := range []*Graph{binaryRules(t, nil), binaryTable(t, false)} {
		for _, s := range g.States() {
			final, err := Run(s, "")
			require.NoError(t, err)
			assert.Equal(t, s, final)
		}
	}
}

func TestRuleGraphTotality(t *testing.T) {
	g := binaryRules(t, &BuilderOpts{Alphabet: "01d"})
	reach := g.Reachable(g.Start())
	for _, s := range g.States() {
		if !reach.Test(uint(s.ID())) {
			continue
		}
		for _, r := range "01d" {
			_, err := s.Advance(r)
			assert.NoError(t, err, "%s on %q", s.Name(), r)
		}
	}
}

func TestAdvanceStable(t *testing.T) {
	g := binaryRules(t, nil)
	digit := g.Entry()
	a, err := digit.Advance('1')
	require.NoError(t, err)
	b, err := digit.Advance('1')
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "digit", digit.Name())
}

func TestAdvanceZeroState(t *testing.T) {
	_, err := State{}.Advance('a')
	assert.ErrorIs(t, err, ErrBadTarget)
	assert.Equal(t, "", State{}.Name())
}

func TestRunReader(t *testing.T) {
	g := binaryRules(t, nil)
	final, err := RunReader(g.Entry(), strings.NewReader("0110"))
	require.NoError(t, err)
	assert.Equal(t, "digit", final.Name())

	final, err = RunReader(g.Entry(), strings.NewReader("01d"))
	require.NoError(t, err)
	assert.Equal(t, "error", final.Name())

	errBoom := errors.New("boom")
	_, err = RunReader(g.Entry(), bufio.NewReader(iotest.ErrReader(errBoom)))
	assert.Equal(t, errBoom, err)

	_, err = RunReader(binaryTable(t, false).Entry(), strings.NewReader("0x"))
	assert.ErrorIs(t, err, ErrUnhandledSymbol)
}

func TestCursor(t *testing.T) {
	g := binaryTable(t, false)
	c := NewCursor(g.Entry())

	require.NoError(t, c.Feed("0101"))
	assert.Equal(t, 4, c.Steps())
	assert.Equal(t, "digit", c.State().Name())

	err := c.Step('x')
	assert.ErrorIs(t, err, ErrUnhandledSymbol)
	assert.Equal(t, 4, c.Steps())
	assert.Equal(t, "digit", c.State().Name())

	require.NoError(t, c.Step('1'))
	assert.Equal(t, 5, c.Steps())

	c.Reset()
	assert.Equal(t, 0, c.Steps())
	assert.Equal(t, g.Entry(), c.State())
}

type recorder struct {
	steps []string
	final string
	count int
	err   error
}

func (r *recorder) OnStep(from, to State, sym rune) {
	r.steps = append(r.steps, from.Name()+string(sym)+to.Name())
}

func (r *recorder) OnDone(final State, steps int, err error) {
	r.final = final.Name()
	r.count = steps
	r.err = err
}

func TestRunnerObservers(t *testing.T) {
	rec := &recorder{}
	r := NewRunner(WithObserver(rec), WithLogger(nil))

	g := binaryRules(t, nil)
	final, err := r.Run(g.Entry(), "0d1")
	require.NoError(t, err)
	assert.Equal(t, "error", final.Name())
	assert.Equal(t, []string{"digit0digit", "digitderror", "error1error"}, rec.steps)
	assert.Equal(t, "error", rec.final)
	assert.Equal(t, 3, rec.count)
	assert.NoError(t, rec.err)

	ok, err := r.Accepts(g.Entry(), "0110")
	require.NoError(t, err)
	assert.True(t, ok)

	rec = &recorder{}
	r = NewRunner(WithObserver(rec))
	_, err = r.Run(binaryTable(t, false).Entry(), "01d1")
	assert.ErrorIs(t, err, ErrUnhandledSymbol)
	assert.ErrorIs(t, rec.err, ErrUnhandledSymbol)
	assert.Equal(t, "digit", rec.final)
	assert.Equal(t, 2, rec.count)
}
