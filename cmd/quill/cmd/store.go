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

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manages the descriptions of a store.",
}

var storePutCmd = &cobra.Command{
	Use:   "put <name> <grammar>",
	Short: "Validates a grammar file and saves it under name.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := grammar.Load(args[1])
		if err != nil {
			return err
		}
		if _, err := desc.Build(&quill.BuilderOpts{Strict: strict}); err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = st.Close()
		}()
		if err := st.Save(cmd.Context(), args[0], desc); err != nil {
			return err
		}
		logger.Info("saved", "name", args[0])
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the stored descriptions.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = st.Close()
		}()
		names, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Deletes a stored description.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = st.Close()
		}()
		return st.Delete(cmd.Context(), args[0])
	},
}

func init() {
	storeCmd.AddCommand(storePutCmd, storeListCmd, storeDeleteCmd)
	RootCmd.AddCommand(storeCmd)
}
