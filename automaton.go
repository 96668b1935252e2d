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

// Automaton represents the general contract of a rune-based finite
// automaton
type Automaton interface {

	// Start returns the start state
	Start() StateID

	// IsMatch returns true if and only if the state is a match
	IsMatch(StateID) bool

	// CanMatch returns true if and only if it is possible to reach a match
	// in zero or more steps
	CanMatch(StateID) bool

	// WillAlwaysMatch returns true if and only if the current state matches
	// and will always match no matter what steps are taken
	WillAlwaysMatch(StateID) bool

	// Accept returns the next state given the input to the specified state
	Accept(StateID, rune) (StateID, error)
}

// Start returns the entry state id.
func (g *Graph) Start() StateID {
	return g.entry
}

// IsMatch returns true if the state is accepting.
func (g *Graph) IsMatch(id StateID) bool {
	return g.valid(id) && g.states[id].accepting
}

// CanMatch returns true if an accepting state is reachable from id.  For
// rule states of a graph built without an alphabet the answer is
// conservatively true.
func (g *Graph) CanMatch(id StateID) bool {
	return g.valid(id) && g.canMatch.Test(uint(id))
}

// WillAlwaysMatch returns true if id and every state reachable from it
// are accepting and no transition out of them can fault.
func (g *Graph) WillAlwaysMatch(id StateID) bool {
	return g.valid(id) && g.alwaysMatch.Test(uint(id))
}

// Accept returns the successor of id on r.
func (g *Graph) Accept(id StateID, r rune) (StateID, error) {
	if !g.valid(id) {
		return NoState, &SymbolError{Symbol: r, Err: ErrBadTarget}
	}
	return g.advance(id, r)
}

// Accepts runs input from the entry state and reports whether the
// terminal state is accepting.
func (g *Graph) Accepts(input string) (bool, error) {
	final, err := Run(g.Entry(), input)
	if err != nil {
		return false, err
	}
	return final.Accepting(), nil
}

// AlwaysMatch is an Automaton implementation which always matches
type AlwaysMatch struct{}

// Start returns the AlwaysMatch start state
func (m *AlwaysMatch) Start() StateID {
	return 0
}

// IsMatch always returns true
func (m *AlwaysMatch) IsMatch(StateID) bool {
	return true
}

// CanMatch always returns true
func (m *AlwaysMatch) CanMatch(StateID) bool {
	return true
}

// WillAlwaysMatch always returns true
func (m *AlwaysMatch) WillAlwaysMatch(StateID) bool {
	return true
}

// Accept returns the next AlwaysMatch state
func (m *AlwaysMatch) Accept(StateID, rune) (StateID, error) {
	return 0, nil
}

// MatchAll drives a over input and reports whether it ends in a match.
// It stops early once the automaton can no longer match.
func MatchAll(a Automaton, input string) (bool, error) {
	curr := a.Start()
	for _, r := range input {
		if !a.CanMatch(curr) {
			return false, nil
		}
		if a.WillAlwaysMatch(curr) {
			return true, nil
		}
		next, err := a.Accept(curr, r)
		if err != nil {
			return false, err
		}
		curr = next
	}
	return a.IsMatch(curr), nil
}
