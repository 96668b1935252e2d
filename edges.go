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
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// edge is a labelled arc used when exporting a graph.
type edge struct {
	to    StateID
	label string
}

// edges groups the transitions of id by target.  Symbols sharing a
// target are collapsed into ranges, the fallback or rule default is
// labelled "*".  Rule states of a graph without an alphabet only show
// their default.
func (g *Graph) edges(id StateID) []edge {
	st := &g.states[id]
	bySymbol := make(map[rune]StateID)
	other := NoState
	switch st.strategy {
	case StrategyTable:
		for r, next := range st.table {
			bySymbol[r] = next
		}
		other = st.fallback
	case StrategyRule:
		for _, r := range g.alphabet {
			if next := st.rule.next(r); next != st.rule.Default {
				bySymbol[r] = next
			}
		}
		other = st.rule.Default
	}

	byTarget := make(map[StateID][]rune)
	for r, next := range bySymbol {
		byTarget[next] = append(byTarget[next], r)
	}
	rv := make([]edge, 0, len(byTarget)+1)
	firsts := make(map[StateID]rune, len(byTarget))
	for next, symbols := range byTarget {
		sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
		firsts[next] = symbols[0]
		rv = append(rv, edge{to: next, label: rangeLabel(symbols)})
	}
	sort.Slice(rv, func(i, j int) bool { return firsts[rv[i].to] < firsts[rv[j].to] })
	if other != NoState {
		rv = append(rv, edge{to: other, label: "*"})
	}
	return rv
}

// rangeLabel renders sorted symbols, runs of three or more consecutive
// runes are written as first-last.
func rangeLabel(symbols []rune) string {
	var parts []string
	for i := 0; i < len(symbols); {
		j := i
		for j+1 < len(symbols) && symbols[j+1] == symbols[j]+1 {
			j++
		}
		if j-i >= 2 {
			parts = append(parts, symbolLabel(symbols[i])+"-"+symbolLabel(symbols[j]))
		} else {
			for k := i; k <= j; k++ {
				parts = append(parts, symbolLabel(symbols[k]))
			}
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

func symbolLabel(r rune) string {
	if unicode.IsPrint(r) && !unicode.IsSpace(r) && r != ',' && r != '-' && r != '*' {
		return string(r)
	}
	return strconv.QuoteRune(r)
}
