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

// row is the sorted transition table of an encoded state.
type row struct {
	id    int
	keys  []rune
	dests []StateID
}

func newRow(t Table) *row {
	keys := t.Symbols()
	rv := &row{
		keys:  keys,
		dests: make([]StateID, len(keys)),
	}
	for i, r := range keys {
		rv.dests[i] = t[r]
	}
	return rv
}

func (r *row) equiv(o *row) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i := range r.keys {
		if r.keys[i] != o.keys[i] || r.dests[i] != o.dests[i] {
			return false
		}
	}
	return true
}

// registry remembers recently encoded rows so identical tables are
// written once.
type registry struct {
	table     []*row
	tableSize uint
	mruSize   uint
}

func newRegistry(tableSize, mruSize int) *registry {
	if tableSize < 1 {
		tableSize = 1
	}
	if mruSize < 1 {
		mruSize = 1
	}
	nsize := tableSize * mruSize
	rv := &registry{
		table:     make([]*row, nsize),
		tableSize: uint(tableSize),
		mruSize:   uint(mruSize),
	}
	return rv
}

// entry returns a previously registered row equivalent to node, or
// registers node and returns nil.
func (r *registry) entry(node *row) *row {
	if len(r.table) == 0 {
		return nil
	}
	bucket := r.hash(node)
	start := r.mruSize * uint(bucket)
	end := start + r.mruSize
	rc := registryCache(r.table[start:end])
	return rc.entry(node)
}

const fnvPrime = 1099511628211

func (r *registry) hash(b *row) int {
	var h uint64 = 14695981039346656037
	for i := range b.keys {
		h ^= (uint64(b.keys[i]) * fnvPrime)
		h ^= (uint64(b.dests[i]) * fnvPrime)
	}
	return int(h % uint64(r.tableSize))
}

type registryCache []*row

func (r registryCache) entry(node *row) *row {
	if len(r) == 1 {
		cell := r[0]
		if cell != nil && cell.equiv(node) {
			return cell
		}
		r[0] = node
		return nil
	}
	for i, ent := range r {
		if ent != nil && ent.equiv(node) {
			r.promote(i)
			return ent
		}
	}
	// no match
	last := len(r) - 1
	r[last] = node // discard LRU
	r.promote(last)
	return nil

}

func (r registryCache) promote(i int) {
	for i > 0 {
		r.swap(i-1, i)
		i--
	}
}

func (r registryCache) swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}
