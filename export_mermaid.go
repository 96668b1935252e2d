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
	"fmt"
	"strings"
)

// Overlay carries run data to highlight in a mermaid diagram.
type Overlay struct {
	Visited []StateID
	Current StateID
}

// OverlayOf returns the overlay of a run of input from entry.  The
// faulting state is current when the run does not complete.
func OverlayOf(entry State, input string) *Overlay {
	rv := &Overlay{
		Visited: []StateID{entry.ID()},
		Current: entry.ID(),
	}
	c := NewCursor(entry)
	for _, r := range input {
		if err := c.Step(r); err != nil {
			break
		}
		rv.Visited = append(rv.Visited, c.State().ID())
	}
	rv.Current = c.State().ID()
	return rv
}

// GenerateMermaid produces a mermaid flowchart of g.  The entry state
// is drawn as a circle, accepting states as double circles and the
// rest as rounded boxes.  Overlay styles are applied when overlay is
// not nil.
func GenerateMermaid(g *Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i := range g.states {
		id := StateID(i)
		st := &g.states[i]

		opener, closer := "(", ")"
		switch {
		case st.accepting:
			opener, closer = "(((", ")))"
		case id == g.entry:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    s%d%s\"%s\"%s\n", id, opener, mermaidEscape(st.name), closer))

		for _, e := range g.edges(id) {
			sb.WriteString(fmt.Sprintf("    s%d -- \"%s\" --> s%d\n", id, mermaidEscape(e.label), e.to))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[StateID]bool)
		for _, id := range overlay.Visited {
			if seen[id] || !g.valid(id) || id == overlay.Current {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class s%d visited;\n", id))
		}
		if g.valid(overlay.Current) {
			sb.WriteString(fmt.Sprintf("    class s%d current;\n", overlay.Current))
		}
	}

	return sb.String()
}

func mermaidEscape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
