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

import "strings"

// Matcher is a partial transition function.  It reports the target for
// the symbols it recognizes and false for everything else.
type Matcher func(r rune) (StateID, bool)

// Rule is the transition function of a rule state.  Symbols not
// recognized by Match go to Default, so a Rule is total as long as
// Default names a state of the graph.  A nil Match sends every symbol
// to Default.
type Rule struct {
	Match   Matcher
	Default StateID
}

// SelfLoop returns the rule of an absorbing state.
func SelfLoop(id StateID) Rule {
	return Rule{Default: id}
}

func (r Rule) next(c rune) StateID {
	if r.Match != nil {
		if next, ok := r.Match(c); ok {
			return next
		}
	}
	return r.Default
}

// OneOf matches every rune of symbols.
func OneOf(symbols string, target StateID) Matcher {
	return func(r rune) (StateID, bool) {
		if strings.ContainsRune(symbols, r) {
			return target, true
		}
		return NoState, false
	}
}

// Between matches the runes in the inclusive range [lo, hi].
func Between(lo, hi rune, target StateID) Matcher {
	return func(r rune) (StateID, bool) {
		if r >= lo && r <= hi {
			return target, true
		}
		return NoState, false
	}
}

// Where matches the runes for which pred returns true.
func Where(pred func(rune) bool, target StateID) Matcher {
	return func(r rune) (StateID, bool) {
		if pred(r) {
			return target, true
		}
		return NoState, false
	}
}

// FirstOf tries each matcher in order and returns the first match.
func FirstOf(ms ...Matcher) Matcher {
	return func(r rune) (StateID, bool) {
		for _, m := range ms {
			if m == nil {
				continue
			}
			if next, ok := m(r); ok {
				return next, true
			}
		}
		return NoState, false
	}
}
