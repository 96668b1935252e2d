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
	"log/slog"
	"os"
	"strings"

	"github.com/couchbase/quill"
	"github.com/couchbase/quill/grammar"
	"github.com/couchbase/quill/internal/logging"
	"github.com/couchbase/quill/store"
	"github.com/couchbase/quill/store/file"
	"github.com/couchbase/quill/store/redis"
	"github.com/spf13/cobra"
)

var logLevel string
var storeURL string
var strict bool

var logger *slog.Logger

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Runs and inspects character driven finite state automata",
	Long: `quill builds state graphs from YAML or JSON descriptions, runs input
through them one character at a time and exports them for inspection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger = logging.New(cmd.ErrOrStderr(), level)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().StringVar(&storeURL, "store", "", "description store, a directory or redis://host:port")
	RootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "reject graphs failing validation")
}

// openStore returns the store named by the --store flag.
func openStore() (store.Store, error) {
	if storeURL == "" {
		return nil, fmt.Errorf("--store is required")
	}
	if addr, ok := strings.CutPrefix(storeURL, "redis://"); ok {
		return redis.New(addr, os.Getenv("QUILL_REDIS_PASSWORD"), 0), nil
	}
	st, err := file.New(storeURL)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// loadDescription reads a description from a file, or from the store
// when --store is set and arg is not an existing file.
func loadDescription(cmd *cobra.Command, arg string) (*grammar.Description, error) {
	if _, err := os.Stat(arg); err == nil || storeURL == "" {
		return grammar.Load(arg)
	}
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = st.Close()
	}()
	return st.Load(cmd.Context(), arg)
}

// loadGraph builds the graph described by arg.
func loadGraph(cmd *cobra.Command, arg string) (*quill.Graph, error) {
	desc, err := loadDescription(cmd, arg)
	if err != nil {
		return nil, err
	}
	g, err := desc.Build(&quill.BuilderOpts{Strict: strict})
	if err != nil {
		return nil, err
	}
	logger.Debug("graph loaded", "source", arg, "states", g.Len(), "alphabet", g.Alphabet())
	return g, nil
}
