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

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchbase/quill/store/file"
	"github.com/couchbase/quill/store/storetest"
)

const strictTable = `{
  "entry": "digit",
  "accepting": ["digit"],
  "states": [{"name": "digit", "edges": {"01": "digit"}}]
}`

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *file.Store) {
	t.Helper()
	st, err := file.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), "binary", storetest.Binary()))

	s, err := New(st, opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, method, url, contentType, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestRun(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		desc  string
		input string
		want  RunResponse
	}{
		{"valid digits", "00110110", RunResponse{Terminal: "digit", Accepted: true, Steps: 8}},
		{"invalid symbol", "00110d110", RunResponse{Terminal: "error", Accepted: false, Steps: 9}},
		{"empty input", "", RunResponse{Terminal: "digit", Accepted: true, Steps: 0}},
	}
	for _, test := range tests {
		body, err := json.Marshal(RunRequest{Input: test.input})
		require.NoError(t, err)
		status, data := do(t, http.MethodPost, ts.URL+"/graphs/binary/run", "application/json", string(body))
		require.Equal(t, http.StatusOK, status, test.desc)

		var got RunResponse
		require.NoError(t, json.Unmarshal([]byte(data), &got))
		assert.Equal(t, test.want, got, test.desc)
	}

	status, _ := do(t, http.MethodPost, ts.URL+"/graphs/missing/run", "application/json", `{"input": "0"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/graphs/binary/run", "application/json", `{`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRunFault(t *testing.T) {
	ts, _ := newTestServer(t)

	status, _ := do(t, http.MethodPut, ts.URL+"/graphs/strict", "application/json", strictTable)
	require.Equal(t, http.StatusCreated, status)

	status, data := do(t, http.MethodPost, ts.URL+"/graphs/strict/run", "application/json", `{"input": "01d"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, data, "unhandled symbol")
}

func TestCRUD(t *testing.T) {
	ts, st := newTestServer(t)

	status, data := do(t, http.MethodGet, ts.URL+"/graphs", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"graphs": ["binary"]}`, data)

	status, data = do(t, http.MethodPut, ts.URL+"/graphs/strict", "application/json", strictTable)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"name": "strict", "states": 1}`, data)

	names, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"binary", "strict"}, names)

	status, data = do(t, http.MethodGet, ts.URL+"/graphs/binary", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, data, "entry: digit")

	status, _ = do(t, http.MethodDelete, ts.URL+"/graphs/strict", "", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, http.MethodDelete, ts.URL+"/graphs/strict", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, http.MethodPost, ts.URL+"/graphs/strict/run", "application/json", `{"input": ""}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPutErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		desc        string
		name        string
		contentType string
		body        string
		want        int
	}{
		{"bad yaml", "x", "text/yaml", "states: [", http.StatusBadRequest},
		{"bad json", "x", "application/json", "{", http.StatusBadRequest},
		{"unknown state", "x", "text/yaml", "states:\n  - name: a\n    default: b\n", http.StatusBadRequest},
		{"invalid name", ".hidden", "application/json", strictTable, http.StatusBadRequest},
	}
	for _, test := range tests {
		status, _ := do(t, http.MethodPut, ts.URL+"/graphs/"+test.name, test.contentType, test.body)
		assert.Equal(t, test.want, status, test.desc)
	}
}

func TestPutStrict(t *testing.T) {
	ts, _ := newTestServer(t, WithStrict(true))

	status, data := do(t, http.MethodPut, ts.URL+"/graphs/strict", "application/json", strictTable)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, data, "failed validation")

	status, _ = do(t, http.MethodPut, ts.URL+"/graphs/copy", "text/yaml", "entry: a\nstates:\n  - name: a\n    fallback: a\n")
	assert.Equal(t, http.StatusCreated, status)
}

func TestExports(t *testing.T) {
	ts, _ := newTestServer(t)

	status, data := do(t, http.MethodGet, ts.URL+"/graphs/binary/dot", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(data, "digraph g {"))
	assert.Contains(t, data, `0 -> 1 [label="*"]`)

	status, data = do(t, http.MethodGet, ts.URL+"/graphs/binary/mermaid", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(data, "graph LR\n"))
	assert.NotContains(t, data, "Overlay Styles")

	status, data = do(t, http.MethodGet, ts.URL+"/graphs/binary/mermaid?input=01d", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, data, "class s0 visited;")
	assert.Contains(t, data, "class s1 current;")

	status, _ = do(t, http.MethodGet, ts.URL+"/graphs/missing/dot", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts, _ := newTestServer(t, WithRegistry(reg))

	status, _ := do(t, http.MethodPost, ts.URL+"/graphs/binary/run", "application/json", `{"input": "0110"}`)
	require.Equal(t, http.StatusOK, status)

	status, data := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, data, `quill_steps_total{graph="binary"} 4`)
	assert.Contains(t, data, `quill_runs_total{graph="binary",terminal="digit"} 1`)
}

func TestNoMetricsRoute(t *testing.T) {
	ts, _ := newTestServer(t)
	status, _ := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}
