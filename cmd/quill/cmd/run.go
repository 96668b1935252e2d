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
	"io"
	"os"

	"github.com/couchbase/quill"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run <grammar> <input>...",
	Short: "Runs inputs through a graph and prints the terminal states.",
	Long: `Runs every input through the graph described by the grammar file and
prints the terminal state each one reaches.  A transition fault stops the
command with a non-zero exit status.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		runner := quill.NewRunner(quill.WithLogger(logger))
		out := newOutcomePrinter(cmd.OutOrStdout())
		for _, input := range args[1:] {
			final, err := runner.Run(g.Entry(), input)
			if err != nil {
				return fmt.Errorf("%q: %w", input, err)
			}
			out.print(input, final)
		}
		return nil
	},
}

type outcomePrinter struct {
	w       io.Writer
	profile termenv.Profile
}

// newOutcomePrinter colours outcomes only when w is a terminal.
func newOutcomePrinter(w io.Writer) *outcomePrinter {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.ColorProfile()
	}
	return &outcomePrinter{w: w, profile: profile}
}

func (p *outcomePrinter) print(input string, final quill.State) {
	outcome := p.profile.String("rejected").Foreground(p.profile.Color("#fb7185"))
	if final.Accepting() {
		outcome = p.profile.String("accepted").Foreground(p.profile.Color("#4ade80"))
	}
	fmt.Fprintf(p.w, "%q -> %s (%s)\n", input, final.Name(), outcome)
}

func init() {
	RootCmd.AddCommand(runCmd)
}
