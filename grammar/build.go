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

package grammar

import (
	"fmt"
	"sort"

	"github.com/couchbase/quill"
)

// Build returns the graph described by d.  When opts is nil, or does not
// declare an alphabet, the alphabet of the description is used.
func (d *Description) Build(opts *quill.BuilderOpts) (*quill.Graph, error) {
	bopts := quill.BuilderOpts{Alphabet: d.Alphabet}
	if opts != nil {
		bopts.Strict = opts.Strict
		if opts.Alphabet != "" {
			bopts.Alphabet = opts.Alphabet
		}
	}
	b := quill.NewBuilder(&bopts)

	ids := make(map[string]quill.StateID, len(d.States))
	for _, s := range d.States {
		if _, dup := ids[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateState, s.Name)
		}
		ids[s.Name] = b.AddState(s.Name)
	}
	resolve := func(from, name string) (quill.StateID, error) {
		id, ok := ids[name]
		if !ok {
			return quill.NoState, fmt.Errorf("state %q: %w: %q", from, ErrUnknownState, name)
		}
		return id, nil
	}

	for _, s := range d.States {
		id := ids[s.Name]
		if s.Default != "" && s.Fallback != "" {
			return nil, fmt.Errorf("state %q: %w", s.Name, ErrConflict)
		}

		if s.Default != "" {
			def, err := resolve(s.Name, s.Default)
			if err != nil {
				return nil, err
			}
			var matchers []quill.Matcher
			for _, symbols := range sortedKeys(s.Edges) {
				target, err := resolve(s.Name, s.Edges[symbols])
				if err != nil {
					return nil, err
				}
				matchers = append(matchers, quill.OneOf(symbols, target))
			}
			rule := quill.Rule{Default: def}
			if len(matchers) > 0 {
				rule.Match = quill.FirstOf(matchers...)
			}
			if err := b.SetRule(id, rule); err != nil {
				return nil, err
			}
			continue
		}

		table := quill.Table{}
		for _, symbols := range sortedKeys(s.Edges) {
			target, err := resolve(s.Name, s.Edges[symbols])
			if err != nil {
				return nil, err
			}
			table = table.With(symbols, target)
		}
		if err := b.SetTable(id, table); err != nil {
			return nil, err
		}
		if s.Fallback != "" {
			fb, err := resolve(s.Name, s.Fallback)
			if err != nil {
				return nil, err
			}
			if err := b.SetFallback(id, fb); err != nil {
				return nil, err
			}
		}
	}

	if d.Entry != "" {
		entry, err := resolve("entry", d.Entry)
		if err != nil {
			return nil, err
		}
		if err := b.SetEntry(entry); err != nil {
			return nil, err
		}
	}
	for _, name := range d.Accepting {
		id, err := resolve("accepting", name)
		if err != nil {
			return nil, err
		}
		if err := b.SetAccepting(id); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Describe returns the description of g.  Graphs with rule states are
// compiled over their alphabet first, so they must declare one.  State
// names must be unique for the description to build again.
func Describe(g *quill.Graph) (*Description, error) {
	for _, s := range g.States() {
		if s.Strategy() == quill.StrategyRule {
			compiled, err := g.Compile("")
			if err != nil {
				return nil, err
			}
			g = compiled
			break
		}
	}

	rv := &Description{
		Entry:    g.Entry().Name(),
		Alphabet: g.Alphabet(),
	}
	for _, s := range g.States() {
		ds := State{Name: s.Name()}
		byTarget := make(map[string][]rune)
		for r, next := range s.Table() {
			target, err := g.State(next)
			if err != nil {
				return nil, err
			}
			byTarget[target.Name()] = append(byTarget[target.Name()], r)
		}
		if len(byTarget) > 0 {
			ds.Edges = make(map[string]string, len(byTarget))
			for name, symbols := range byTarget {
				sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
				ds.Edges[string(symbols)] = name
			}
		}
		if fb, ok := s.Fallback(); ok {
			ds.Fallback = fb.Name()
		}
		if s.Accepting() {
			rv.Accepting = append(rv.Accepting, s.Name())
		}
		rv.States = append(rv.States, ds)
	}
	return rv, nil
}
