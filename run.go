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
	"io"
)

// Run drives the automaton from entry over input, one rune per step,
// and returns the state reached once input is exhausted.  An empty input
// returns entry.  Transition faults are returned unchanged.
func Run(entry State, input string) (State, error) {
	curr := entry
	for _, r := range input {
		next, err := curr.Advance(r)
		if err != nil {
			return State{}, err
		}
		curr = next
	}
	return curr, nil
}

// RunReader is like Run but consumes runes from rr until io.EOF.
func RunReader(entry State, rr io.RuneReader) (State, error) {
	curr := entry
	for {
		r, _, err := rr.ReadRune()
		if errors.Is(err, io.EOF) {
			return curr, nil
		}
		if err != nil {
			return State{}, err
		}
		curr, err = curr.Advance(r)
		if err != nil {
			return State{}, err
		}
	}
}

// Cursor is an incremental run.  Callers feed symbols as they become
// available and may stop at any point.
type Cursor struct {
	entry State
	curr  State
	steps int
}

// NewCursor returns a Cursor positioned at entry.
func NewCursor(entry State) *Cursor {
	return &Cursor{
		entry: entry,
		curr:  entry,
	}
}

// Step consumes one symbol.  On error the cursor does not move.
func (c *Cursor) Step(r rune) error {
	next, err := c.curr.Advance(r)
	if err != nil {
		return err
	}
	c.curr = next
	c.steps++
	return nil
}

// Feed consumes every rune of s, stopping at the first error.
func (c *Cursor) Feed(s string) error {
	for _, r := range s {
		if err := c.Step(r); err != nil {
			return err
		}
	}
	return nil
}

// State returns the current state.
func (c *Cursor) State() State {
	return c.curr
}

// Steps returns the number of symbols consumed.
func (c *Cursor) Steps() int {
	return c.steps
}

// Reset moves the cursor back to its entry state.
func (c *Cursor) Reset() {
	c.curr = c.entry
	c.steps = 0
}
