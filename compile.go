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

// ErrNoAlphabet is returned when an operation needs an alphabet and
// none was supplied.
var ErrNoAlphabet = errors.New("no alphabet")

// Compile returns an equivalent graph made only of table states.  Rule
// states are tabulated over alphabet, symbols outside of it take the
// rule default as the table fallback.  An empty alphabet uses the one
// the graph was built with.
func (g *Graph) Compile(alphabet string) (*Graph, error) {
	if alphabet == "" {
		alphabet = string(g.alphabet)
	}
	if alphabet == "" {
		return nil, ErrNoAlphabet
	}
	b := NewBuilder(&BuilderOpts{Alphabet: alphabet})
	for i := range g.states {
		b.AddState(g.states[i].name)
	}
	symbols := dedupRunes(alphabet)
	var accepting []StateID
	for i := range g.states {
		id := StateID(i)
		st := &g.states[i]
		switch st.strategy {
		case StrategyTable:
			if err := b.SetTable(id, st.table); err != nil {
				return nil, err
			}
			if st.fallback != NoState {
				if err := b.SetFallback(id, st.fallback); err != nil {
					return nil, err
				}
			}
		case StrategyRule:
			table := make(Table, len(symbols))
			for _, r := range symbols {
				next := st.rule.next(r)
				if next == st.rule.Default {
					continue
				}
				if !g.valid(next) {
					return nil, &BuildError{State: st.name, ID: id, Err: fmt.Errorf("symbol %q -> %d: %w", r, next, ErrBadTarget)}
				}
				table[r] = next
			}
			if err := b.SetTable(id, table); err != nil {
				return nil, err
			}
			if err := b.SetFallback(id, st.rule.Default); err != nil {
				return nil, err
			}
		}
		if st.accepting {
			accepting = append(accepting, id)
		}
	}
	if err := b.SetEntry(g.entry); err != nil {
		return nil, err
	}
	if err := b.SetAccepting(accepting...); err != nil {
		return nil, err
	}
	return b.Build()
}
