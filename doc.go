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

/*
Package quill is a library for building character-driven finite state
automata and running them over input, one rune at a time.

A Graph is built once with a Builder and is immutable afterwards.  Each
state either evaluates a Rule, a partial Matcher plus a mandatory
default, or looks the symbol up in a Table, optionally falling back to
a single state for unmapped symbols.  A table state without a fallback
faults on unmapped symbols, the fault is returned as a *SymbolError.

	b := quill.NewBuilder(nil)
	digit := b.AddState("digit")
	bad := b.AddState("error")
	b.SetRule(digit, quill.Rule{Match: quill.OneOf("01", digit), Default: bad})
	b.SetRule(bad, quill.SelfLoop(bad))
	b.SetAccepting(digit)
	g, err := b.Build()

	final, err := quill.Run(g.Entry(), "00110d110") // final.Name() == "error"

Graphs made only of table states can be encoded with Encode and opened
again with Open, Compile converts rule states over a declared alphabet.
*/
package quill
