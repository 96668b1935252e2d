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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

var dotHeader = `digraph g {
rankdir=LR
`

var dotFooter = `}
`

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ExportDot will export the provided Graph into the GraphViz (dot) file
// format.
func ExportDot(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)

	_, err := bw.WriteString(dotHeader)
	if err != nil {
		return err
	}

	for i := range g.states {
		err = exportStateDot(g, StateID(i), bw)
		if err != nil {
			return err
		}
	}

	_, err = bw.WriteString(dotFooter)
	if err != nil {
		return err
	}

	return bw.Flush()
}

func exportStateDot(g *Graph, id StateID, bw *bufio.Writer) error {
	st := &g.states[id]

	var buf bytes.Buffer
	_, _ = buf.WriteString(fmt.Sprintf("%d [label=\"%s\"]\n", id, dotEscaper.Replace(st.name)))
	if st.accepting {
		_, _ = buf.WriteString(fmt.Sprintf("%d [shape=doublecircle]\n", id))
	}
	if id == g.entry {
		_, _ = buf.WriteString(fmt.Sprintf("%d [style=bold]\n", id))
	}
	for _, e := range g.edges(id) {
		_, _ = buf.WriteString(fmt.Sprintf("%d -> %d [label=\"%s\"]\n", id, e.to, dotEscaper.Replace(e.label)))
	}
	_, _ = buf.WriteString("\n")

	_, err := bw.Write(buf.Bytes())
	return err
}
