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

// ViolationKind classifies a Violation.
type ViolationKind int

const (
	// ViolationUnhandled is a symbol of the alphabet a reachable table
	// state has no transition for.
	ViolationUnhandled ViolationKind = iota
	// ViolationBadTarget is a rule transition to a state outside the graph.
	ViolationBadTarget
	// ViolationUnreachable is a state that cannot be reached from the
	// entry state.
	ViolationUnreachable
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationUnhandled:
		return "unhandled"
	case ViolationBadTarget:
		return "bad-target"
	case ViolationUnreachable:
		return "unreachable"
	}
	return "unknown"
}

// Violation is a problem found by Validate.
type Violation struct {
	Kind   ViolationKind
	State  string
	ID     StateID
	Symbol rune
}

func (v Violation) String() string {
	if v.Kind == ViolationUnreachable {
		return fmt.Sprintf("%s: state %q (%d)", v.Kind, v.State, v.ID)
	}
	return fmt.Sprintf("%s: state %q (%d) symbol %q", v.Kind, v.State, v.ID, v.Symbol)
}

// Validate checks the graph against its alphabet.  Every state reachable
// from the entry state must have a transition for every symbol of the
// alphabet.  Without an alphabet only table states lacking a fallback
// can be checked, they are reported with a zero symbol.
func (g *Graph) Validate() []Violation {
	var rv []Violation
	reach := g.Reachable(g.entry)
	for i := range g.states {
		id := StateID(i)
		st := &g.states[i]
		if !reach.Test(uint(i)) {
			rv = append(rv, Violation{Kind: ViolationUnreachable, State: st.name, ID: id})
			continue
		}
		if len(g.alphabet) == 0 {
			if st.strategy == StrategyTable && st.fallback == NoState {
				rv = append(rv, Violation{Kind: ViolationUnhandled, State: st.name, ID: id})
			}
			continue
		}
		for _, r := range g.alphabet {
			_, err := g.advance(id, r)
			if err == nil {
				continue
			}
			kind := ViolationUnhandled
			if errors.Is(err, ErrBadTarget) {
				kind = ViolationBadTarget
			}
			rv = append(rv, Violation{Kind: kind, State: st.name, ID: id, Symbol: r})
		}
	}
	return rv
}

// IsAbsorbing returns true if every symbol leads from id back to id.
// Rule states with a matcher need an alphabet to qualify.
func (g *Graph) IsAbsorbing(id StateID) bool {
	if !g.valid(id) {
		return false
	}
	succ, fault, opaque := g.successors(id)
	if fault || opaque {
		return false
	}
	for _, next := range succ {
		if next != id {
			return false
		}
	}
	return true
}
