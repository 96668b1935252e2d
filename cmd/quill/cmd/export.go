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

package cmd

import (
	"fmt"

	"github.com/couchbase/quill"
	"github.com/spf13/cobra"
)

var overlayInput string

var dotCmd = &cobra.Command{
	Use:   "dot <grammar>",
	Short: "Exports a graph in GraphViz dot format.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		return quill.ExportDot(g, cmd.OutOrStdout())
	},
}

var svgCmd = &cobra.Command{
	Use:   "svg <grammar> <out>",
	Short: "Renders a graph to an SVG file, requires GraphViz.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		return quill.ExportSVGFile(g, args[1])
	},
}

var mermaidCmd = &cobra.Command{
	Use:   "mermaid <grammar>",
	Short: "Exports a graph as a mermaid flowchart.",
	Long: `Exports a graph as a mermaid flowchart.  With --input the states visited
by a run of the input are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		var overlay *quill.Overlay
		if cmd.Flags().Changed("input") {
			overlay = quill.OverlayOf(g.Entry(), overlayInput)
		}
		fmt.Fprint(cmd.OutOrStdout(), quill.GenerateMermaid(g, overlay))
		return nil
	},
}

func init() {
	mermaidCmd.Flags().StringVar(&overlayInput, "input", "", "highlight the run of this input")
	RootCmd.AddCommand(dotCmd)
	RootCmd.AddCommand(svgCmd)
	RootCmd.AddCommand(mermaidCmd)
}
