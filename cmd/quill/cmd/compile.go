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
	"github.com/couchbase/quill/grammar"
	"github.com/spf13/cobra"
)

var compileAlphabet string

var compileCmd = &cobra.Command{
	Use:   "compile <grammar> <out>",
	Short: "Compiles a graph into the binary table format.",
	Long: `Tabulates every rule state over the alphabet and writes the resulting
graph in the binary format read by inspect.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		compiled, err := g.Compile(compileAlphabet)
		if err != nil {
			return err
		}
		err = quill.EncodeFile(compiled, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "compiled %d states\n", compiled.Len())
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints the description of a compiled graph.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := quill.Open(args[0])
		if err != nil {
			return err
		}
		desc, err := grammar.Describe(g)
		if err != nil {
			return err
		}
		data, err := grammar.Marshal(desc, grammar.YAML)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileAlphabet, "alphabet", "", "symbols to tabulate, defaults to the grammar alphabet")
	RootCmd.AddCommand(compileCmd)
	RootCmd.AddCommand(inspectCmd)
}
