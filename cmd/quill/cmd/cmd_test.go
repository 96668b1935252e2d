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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchbase/quill"
	"github.com/couchbase/quill/store"
)

const binaryGrammar = "../../../grammar/testdata/binary.yaml"

// strictGrammar faults on 'd', which its alphabet declares.
const strictGrammar = `entry: digit
alphabet: "01d"
accepting: [digit]
states:
  - name: digit
    edges: {"01": digit}
`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func writeGrammar(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grammar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", binaryGrammar, "00110110", "00110d110", "")
	require.NoError(t, err)
	assert.Equal(t, `"00110110" -> digit (accepted)
"00110d110" -> error (rejected)
"" -> digit (accepted)
`, out)
}

func TestRunCommandFault(t *testing.T) {
	path := writeGrammar(t, strictGrammar)
	out, err := execute(t, "run", path, "01", "0d", "11")
	assert.ErrorIs(t, err, quill.ErrUnhandledSymbol)
	assert.Contains(t, err.Error(), `"0d"`)
	assert.Equal(t, "\"01\" -> digit (accepted)\n", out)
}

func TestStrictFlag(t *testing.T) {
	path := writeGrammar(t, strictGrammar)

	_, err := execute(t, "run", "--strict", path, "01")
	assert.ErrorIs(t, err, quill.ErrInvalid)

	_, err = execute(t, "run", path, "01")
	assert.NoError(t, err)

	_, err = execute(t, "run", "--strict", binaryGrammar, "01")
	assert.NoError(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", binaryGrammar)
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 states\n", out)

	out, err = execute(t, "validate", writeGrammar(t, strictGrammar))
	assert.EqualError(t, err, "1 violations")
	assert.Equal(t, "unhandled: state \"digit\" (0) symbol 'd'\n", out)
}

func TestStoreFallback(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "store", "put", "--store", dir, "binary", binaryGrammar)
	require.NoError(t, err)

	out, err := execute(t, "store", "list", "--store", dir)
	require.NoError(t, err)
	assert.Equal(t, "binary\n", out)

	// not a file, so it is loaded from the store
	out, err = execute(t, "run", "--store", dir, "binary", "0110")
	require.NoError(t, err)
	assert.Equal(t, "\"0110\" -> digit (accepted)\n", out)

	_, err = execute(t, "run", "binary", "0110")
	assert.Error(t, err, "no store, no file")

	_, err = execute(t, "store", "delete", "--store", dir, "binary")
	require.NoError(t, err)
	_, err = execute(t, "run", "--store", dir, "binary", "0110")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStorePutStrict(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, strictGrammar)

	_, err := execute(t, "store", "put", "--strict", "--store", dir, "strict", path)
	assert.ErrorIs(t, err, quill.ErrInvalid)

	out, err := execute(t, "store", "list", "--store", dir)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(t, "store", "put", "--store", dir, "strict", path)
	assert.NoError(t, err)
}

func TestExportCommands(t *testing.T) {
	out, err := execute(t, "dot", binaryGrammar)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph g {\n"))

	out, err = execute(t, "mermaid", "--input", "01d", binaryGrammar)
	require.NoError(t, err)
	assert.Contains(t, out, "class s1 current;")

	out, err = execute(t, "mermaid", binaryGrammar)
	require.NoError(t, err)
	assert.NotContains(t, out, "Overlay Styles")
}

func TestCompileInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.qfa")
	out, err := execute(t, "compile", binaryGrammar, path)
	require.NoError(t, err)
	assert.Equal(t, "compiled 2 states\n", out)

	out, err = execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "entry: digit")
	assert.Contains(t, out, "fallback: error")
}
