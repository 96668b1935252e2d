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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	g := binaryRules(t, &BuilderOpts{Alphabet: "01d"})

	expected := `graph LR
    s0((("digit")))
    s0 -- "0,1" --> s0
    s0 -- "*" --> s1
    s1("error")
    s1 -- "*" --> s1
`
	assert.Equal(t, expected, GenerateMermaid(g, nil))
}

func TestGenerateMermaidOverlay(t *testing.T) {
	g := binaryRules(t, &BuilderOpts{Alphabet: "01d"})
	overlay := OverlayOf(g.Entry(), "01d1")
	assert.Equal(t, []StateID{0, 0, 0, 1, 1}, overlay.Visited)
	assert.Equal(t, StateID(1), overlay.Current)

	expected := `graph LR
    s0((("digit")))
    s0 -- "0,1" --> s0
    s0 -- "*" --> s1
    s1("error")
    s1 -- "*" --> s1

    %% Overlay Styles
    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;
    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;
    class s0 visited;
    class s1 current;
`
	assert.Equal(t, expected, GenerateMermaid(g, overlay))
}

func TestOverlayStopsAtFault(t *testing.T) {
	g := binaryTable(t, false)
	overlay := OverlayOf(g.Entry(), "01d1")
	assert.Equal(t, []StateID{0, 0, 0}, overlay.Visited)
	assert.Equal(t, StateID(0), overlay.Current)
}

func TestGenerateMermaidShapes(t *testing.T) {
	b := NewBuilder(nil)
	start := b.AddState(`a "quoted" name`)
	end := b.AddState("end")
	assert.NoError(t, b.SetTable(start, Edges("x", end)))
	assert.NoError(t, b.SetRule(end, SelfLoop(end)))
	g, err := b.Build()
	assert.NoError(t, err)

	expected := `graph LR
    s0(("a #quot;quoted#quot; name"))
    s0 -- "x" --> s1
    s1("end")
    s1 -- "*" --> s1
`
	assert.Equal(t, expected, GenerateMermaid(g, nil))
}
