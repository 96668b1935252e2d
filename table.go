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

import "sort"

// Table maps symbols to successor states.
type Table map[rune]StateID

// Edges returns a table sending every rune of symbols to target.
func Edges(symbols string, target StateID) Table {
	rv := make(Table, len(symbols))
	for _, r := range symbols {
		rv[r] = target
	}
	return rv
}

// With returns a copy of t that also sends every rune of symbols to
// target, replacing existing entries.
func (t Table) With(symbols string, target StateID) Table {
	rv := t.clone()
	for _, r := range symbols {
		rv[r] = target
	}
	return rv
}

// Symbols returns the symbols of t in ascending order.
func (t Table) Symbols() []rune {
	rv := make([]rune, 0, len(t))
	for r := range t {
		rv = append(rv, r)
	}
	sort.Slice(rv, func(i, j int) bool { return rv[i] < rv[j] })
	return rv
}

func (t Table) clone() Table {
	rv := make(Table, len(t))
	for r, id := range t {
		rv[r] = id
	}
	return rv
}
