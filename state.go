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

// StateID addresses a state within the arena of a Graph.
type StateID int

// NoState is the StateID used when no state applies.
const NoState StateID = -1

// Strategy selects how a state computes its successor.
type Strategy int

const (
	// StrategyUnbound marks a state allocated by a Builder whose
	// transition strategy has not been set yet.
	StrategyUnbound Strategy = iota
	// StrategyRule states evaluate a Rule for every symbol.
	StrategyRule
	// StrategyTable states look the symbol up in a Table.
	StrategyTable
)

func (s Strategy) String() string {
	switch s {
	case StrategyRule:
		return "rule"
	case StrategyTable:
		return "table"
	}
	return "unbound"
}

// ErrUnhandledSymbol is returned when a table state receives a symbol
// it has no entry for and no fallback was declared.
var ErrUnhandledSymbol = errors.New("unhandled symbol")

// ErrBadTarget is returned when a transition names a state outside the graph.
var ErrBadTarget = errors.New("transition target out of range")

// SymbolError describes a failed transition.
type SymbolError struct {
	State  string
	Symbol rune
	Err    error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("state %q: symbol %q: %v", e.State, e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

type state struct {
	name      string
	strategy  Strategy
	rule      Rule
	table     Table
	fallback  StateID
	accepting bool
}

// State is a handle to a named node of a Graph.  The zero value is not
// a valid state.  States are immutable, two handles are equal when they
// refer to the same slot of the same graph.
type State struct {
	g  *Graph
	id StateID
}

// Valid returns false for the zero State.
func (s State) Valid() bool {
	return s.g != nil && s.id >= 0 && int(s.id) < len(s.g.states)
}

// ID returns the arena index of the state.
func (s State) ID() StateID {
	return s.id
}

// Graph returns the graph owning this state.
func (s State) Graph() *Graph {
	return s.g
}

// Name returns the label of the state.
func (s State) Name() string {
	if !s.Valid() {
		return ""
	}
	return s.g.states[s.id].name
}

// Strategy returns the transition strategy of the state.
func (s State) Strategy() Strategy {
	if !s.Valid() {
		return StrategyUnbound
	}
	return s.g.states[s.id].strategy
}

// Accepting returns true if the state was marked accepting at build time.
func (s State) Accepting() bool {
	if !s.Valid() {
		return false
	}
	return s.g.states[s.id].accepting
}

// Table returns a copy of the transitions of a table state, or nil for
// other states.
func (s State) Table() Table {
	if s.Strategy() != StrategyTable {
		return nil
	}
	return s.g.states[s.id].table.clone()
}

// Fallback returns the state a table state moves to on symbols missing
// from its table.  The second return value is false when the state has
// no fallback.
func (s State) Fallback() (State, bool) {
	if s.Strategy() != StrategyTable || s.g.states[s.id].fallback == NoState {
		return State{}, false
	}
	return State{g: s.g, id: s.g.states[s.id].fallback}, true
}

// Advance returns the successor of s on symbol r.
func (s State) Advance(r rune) (State, error) {
	if !s.Valid() {
		return State{}, &SymbolError{Symbol: r, Err: ErrBadTarget}
	}
	next, err := s.g.advance(s.id, r)
	if err != nil {
		return State{}, err
	}
	return State{g: s.g, id: next}, nil
}

func (s State) String() string {
	return fmt.Sprintf("%s(%d)", s.Name(), s.id)
}
