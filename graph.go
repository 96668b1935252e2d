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
	"fmt"

	"github.com/willf/bitset"
)

// Graph is an immutable arena of states built by a Builder.  A Graph
// is safe for concurrent use, runs only hold a cursor into it.
type Graph struct {
	states   []state
	entry    StateID
	alphabet []rune

	canMatch    *bitset.BitSet
	alwaysMatch *bitset.BitSet
}

// Entry returns the entry state of the graph.
func (g *Graph) Entry() State {
	return State{g: g, id: g.entry}
}

// State returns the state with the specified id.
func (g *Graph) State(id StateID) (State, error) {
	if !g.valid(id) {
		return State{}, fmt.Errorf("state %d: %w", id, ErrBadTarget)
	}
	return State{g: g, id: id}, nil
}

// Lookup returns the first state with the specified name.
func (g *Graph) Lookup(name string) (State, bool) {
	for i := range g.states {
		if g.states[i].name == name {
			return State{g: g, id: StateID(i)}, true
		}
	}
	return State{}, false
}

// Len returns the number of states in the graph.
func (g *Graph) Len() int {
	return len(g.states)
}

// States returns every state of the graph in id order.
func (g *Graph) States() []State {
	rv := make([]State, len(g.states))
	for i := range g.states {
		rv[i] = State{g: g, id: StateID(i)}
	}
	return rv
}

// Alphabet returns the declared symbol set, or the empty string if the
// graph was built without one.
func (g *Graph) Alphabet() string {
	return string(g.alphabet)
}

func (g *Graph) valid(id StateID) bool {
	return id >= 0 && int(id) < len(g.states)
}

func (g *Graph) advance(id StateID, r rune) (StateID, error) {
	st := &g.states[id]
	var next StateID
	switch st.strategy {
	case StrategyRule:
		next = st.rule.next(r)
	case StrategyTable:
		var ok bool
		next, ok = st.table[r]
		if !ok {
			if st.fallback == NoState {
				return NoState, &SymbolError{State: st.name, Symbol: r, Err: ErrUnhandledSymbol}
			}
			next = st.fallback
		}
	default:
		return NoState, &SymbolError{State: st.name, Symbol: r, Err: ErrUnbound}
	}
	if !g.valid(next) {
		return NoState, &SymbolError{State: st.name, Symbol: r, Err: ErrBadTarget}
	}
	return next, nil
}

// successors lists the states id can move to.  fault is set when some
// symbol has no transition, opaque when the successors of a rule state
// cannot be enumerated without an alphabet, in which case only the rule
// default is listed.  Symbols outside the alphabet take the rule default
// or the table fallback.
func (g *Graph) successors(id StateID) (succ []StateID, fault, opaque bool) {
	st := &g.states[id]
	switch st.strategy {
	case StrategyTable:
		for _, next := range st.table {
			succ = append(succ, next)
		}
		if st.fallback == NoState {
			return succ, true, false
		}
		return append(succ, st.fallback), false, false
	case StrategyRule:
		if st.rule.Match == nil {
			return []StateID{st.rule.Default}, false, false
		}
		if len(g.alphabet) == 0 {
			return []StateID{st.rule.Default}, false, true
		}
		for _, r := range g.alphabet {
			next := st.rule.next(r)
			if !g.valid(next) {
				fault = true
				continue
			}
			succ = append(succ, next)
		}
		return append(succ, st.rule.Default), fault, false
	}
	return nil, true, false
}

// Reachable returns the set of states reachable from id in zero or more
// steps.  Rule states of a graph without an alphabet only contribute
// their default transition.
func (g *Graph) Reachable(id StateID) *bitset.BitSet {
	seen := bitset.New(uint(len(g.states)))
	if !g.valid(id) {
		return seen
	}
	stack := []StateID{id}
	seen.Set(uint(id))
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		succ, _, _ := g.successors(curr)
		for _, next := range succ {
			if !g.valid(next) || seen.Test(uint(next)) {
				continue
			}
			seen.Set(uint(next))
			stack = append(stack, next)
		}
	}
	return seen
}

// analyze computes the match predicates used by the Automaton methods.
func (g *Graph) analyze() {
	n := uint(len(g.states))
	g.canMatch = bitset.New(n)
	g.alwaysMatch = bitset.New(n)

	succs := make([][]StateID, n)
	faults := bitset.New(n)
	anyOpaque := false
	for i := range g.states {
		succ, fault, opaque := g.successors(StateID(i))
		succs[i] = succ
		if fault || opaque {
			faults.Set(uint(i))
		}
		anyOpaque = anyOpaque || opaque
		if g.states[i].accepting {
			g.canMatch.Set(uint(i))
			g.alwaysMatch.Set(uint(i))
		}
	}

	if anyOpaque {
		for i := uint(0); i < n; i++ {
			g.canMatch.Set(i)
		}
	} else {
		for changed := true; changed; {
			changed = false
			for i := range succs {
				if g.canMatch.Test(uint(i)) {
					continue
				}
				for _, next := range succs[i] {
					if g.valid(next) && g.canMatch.Test(uint(next)) {
						g.canMatch.Set(uint(i))
						changed = true
						break
					}
				}
			}
		}
	}

	g.alwaysMatch.InPlaceDifference(faults)
	for changed := true; changed; {
		changed = false
		for i := range succs {
			if !g.alwaysMatch.Test(uint(i)) {
				continue
			}
			for _, next := range succs[i] {
				if !g.valid(next) || !g.alwaysMatch.Test(uint(next)) {
					g.alwaysMatch.Clear(uint(i))
					changed = true
					break
				}
			}
		}
	}
}
