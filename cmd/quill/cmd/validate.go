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

var validateCmd = &cobra.Command{
	Use:   "validate <grammar>",
	Short: "Checks a graph for missing transitions.",
	Long: `Checks that every state reachable from the entry state has a transition
for every symbol of the alphabet.  Unreachable states are reported but do not
fail validation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		failed := 0
		for _, v := range g.Validate() {
			fmt.Fprintln(cmd.OutOrStdout(), v)
			if v.Kind != quill.ViolationUnreachable {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d violations", failed)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d states\n", g.Len())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
