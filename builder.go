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
	"errors"
	"fmt"
)

// ErrNoStates is returned when building a graph without states.
var ErrNoStates = errors.New("graph has no states")

// ErrUnbound is returned when a state has no transition strategy.
var ErrUnbound = errors.New("state has no transition strategy")

// ErrNoDefault is returned when a rule has no default transition.
var ErrNoDefault = errors.New("rule has no default transition")

// ErrDuplicateBinding is returned when a strategy is bound to a state
// that already has one.
var ErrDuplicateBinding = errors.New("state already bound")

// ErrInvalid is returned by a Strict build of a graph that has
// validation violations.
var ErrInvalid = errors.New("graph failed validation")

var defaultBuilderOpts = &BuilderOpts{}

// BuilderOpts controls how a Graph is built.
type BuilderOpts struct {
	// Alphabet declares every symbol the graph will be fed.  It enables
	// validation, compilation and exact match predicates for rule states.
	Alphabet string

	// Strict rejects graphs with validation violations other than
	// unreachable states.
	Strict bool
}

// BuildError reports the state a build failure relates to.
type BuildError struct {
	State string
	ID    StateID
	Err   error
}

func (e *BuildError) Error() string {
	if e.ID == NoState {
		return e.Err.Error()
	}
	return fmt.Sprintf("state %q (%d): %v", e.State, e.ID, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// A Builder is used to build a new Graph.  States are allocated first
// with AddState, which allows transitions to refer to any state,
// including the one being bound.
type Builder struct {
	opts      *BuilderOpts
	states    []state
	entry     StateID
	accepting []StateID
	err       error
}

// NewBuilder returns a new Builder.  A nil opts uses the defaults.
func NewBuilder(opts *BuilderOpts) *Builder {
	if opts == nil {
		opts = defaultBuilderOpts
	}
	return &Builder{
		opts:  opts,
		entry: NoState,
	}
}

// AddState allocates a new unbound state.
func (b *Builder) AddState(name string) StateID {
	b.states = append(b.states, state{
		name:     name,
		fallback: NoState,
	})
	return StateID(len(b.states) - 1)
}

// SetRule makes id a rule state.
func (b *Builder) SetRule(id StateID, rule Rule) error {
	st, err := b.unbound(id)
	if err != nil {
		return err
	}
	st.strategy = StrategyRule
	st.rule = rule
	return nil
}

// SetTable makes id a table state.  The table is copied.
func (b *Builder) SetTable(id StateID, table Table) error {
	st, err := b.unbound(id)
	if err != nil {
		return err
	}
	st.strategy = StrategyTable
	st.table = table.clone()
	return nil
}

// SetFallback routes the symbols missing from the table of id to target.
func (b *Builder) SetFallback(id, target StateID) error {
	if !b.valid(id) {
		return b.fail(&BuildError{ID: NoState, Err: fmt.Errorf("state %d: %w", id, ErrBadTarget)})
	}
	st := &b.states[id]
	if st.strategy != StrategyTable {
		return b.fail(&BuildError{State: st.name, ID: id, Err: errors.New("fallback requires a table state")})
	}
	st.fallback = target
	return nil
}

// SetEntry sets the entry state.  By default it is the first state added.
func (b *Builder) SetEntry(id StateID) error {
	if !b.valid(id) {
		return b.fail(&BuildError{ID: NoState, Err: fmt.Errorf("entry %d: %w", id, ErrBadTarget)})
	}
	b.entry = id
	return nil
}

// SetAccepting marks states as accepting.
func (b *Builder) SetAccepting(ids ...StateID) error {
	for _, id := range ids {
		if !b.valid(id) {
			return b.fail(&BuildError{ID: NoState, Err: fmt.Errorf("accepting %d: %w", id, ErrBadTarget)})
		}
	}
	b.accepting = append(b.accepting, ids...)
	return nil
}

// Build returns the Graph.  The first error encountered while setting
// up the builder is returned here as well.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.states) == 0 {
		return nil, &BuildError{ID: NoState, Err: ErrNoStates}
	}
	for i := range b.states {
		if err := b.check(StateID(i)); err != nil {
			return nil, err
		}
	}

	g := &Graph{
		states:   make([]state, len(b.states)),
		entry:    b.entry,
		alphabet: dedupRunes(b.opts.Alphabet),
	}
	copy(g.states, b.states)
	for i := range g.states {
		if g.states[i].table != nil {
			g.states[i].table = g.states[i].table.clone()
		}
	}
	if g.entry == NoState {
		g.entry = 0
	}
	for _, id := range b.accepting {
		g.states[id].accepting = true
	}
	g.analyze()

	if b.opts.Strict {
		for _, v := range g.Validate() {
			if v.Kind != ViolationUnreachable {
				return nil, fmt.Errorf("%w: %v", ErrInvalid, v)
			}
		}
	}
	return g, nil
}

func (b *Builder) check(id StateID) error {
	st := &b.states[id]
	switch st.strategy {
	case StrategyUnbound:
		return &BuildError{State: st.name, ID: id, Err: ErrUnbound}
	case StrategyRule:
		if st.rule.Default == NoState {
			return &BuildError{State: st.name, ID: id, Err: ErrNoDefault}
		}
		if !b.valid(st.rule.Default) {
			return &BuildError{State: st.name, ID: id, Err: fmt.Errorf("default %d: %w", st.rule.Default, ErrBadTarget)}
		}
	case StrategyTable:
		for r, next := range st.table {
			if !b.valid(next) {
				return &BuildError{State: st.name, ID: id, Err: fmt.Errorf("symbol %q -> %d: %w", r, next, ErrBadTarget)}
			}
		}
		if st.fallback != NoState && !b.valid(st.fallback) {
			return &BuildError{State: st.name, ID: id, Err: fmt.Errorf("fallback %d: %w", st.fallback, ErrBadTarget)}
		}
	}
	return nil
}

func (b *Builder) unbound(id StateID) (*state, error) {
	if !b.valid(id) {
		return nil, b.fail(&BuildError{ID: NoState, Err: fmt.Errorf("state %d: %w", id, ErrBadTarget)})
	}
	st := &b.states[id]
	if st.strategy != StrategyUnbound {
		return nil, b.fail(&BuildError{State: st.name, ID: id, Err: ErrDuplicateBinding})
	}
	return st, nil
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

func (b *Builder) valid(id StateID) bool {
	return id >= 0 && int(id) < len(b.states)
}

// dedupRunes returns the distinct runes of s in first-seen order.
func dedupRunes(s string) []rune {
	if s == "" {
		return nil
	}
	seen := make(map[rune]struct{}, len(s))
	rv := make([]rune, 0, len(s))
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		rv = append(rv, r)
	}
	return rv
}
