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

// Package server exposes stored graphs over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"unicode/utf8"

	"github.com/couchbase/quill"
	"github.com/couchbase/quill/grammar"
	"github.com/couchbase/quill/internal/logging"
	"github.com/couchbase/quill/metrics"
	"github.com/couchbase/quill/store"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBody = 1 << 20

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry records run metrics in reg and serves them on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithStrict rejects uploads that fail validation.
func WithStrict(strict bool) Option {
	return func(s *Server) {
		s.strict = strict
	}
}

// Server serves the graphs of a store.
type Server struct {
	store    store.Store
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collectors
	strict   bool

	mu     sync.RWMutex
	graphs map[string]*quill.Graph
}

// RunRequest is the body of a run request.
type RunRequest struct {
	Input string `json:"input"`
}

// RunResponse is the outcome of a run.
type RunResponse struct {
	Terminal string `json:"terminal"`
	Accepted bool   `json:"accepted"`
	Steps    int    `json:"steps"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New returns a Server backed by st.
func New(st store.Store, opts ...Option) (*Server, error) {
	s := &Server{
		store:  st,
		logger: logging.NewNop(),
		graphs: make(map[string]*quill.Graph),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry != nil {
		c, err := metrics.NewCollectors(s.registry)
		if err != nil {
			return nil, err
		}
		s.metrics = c
	}
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.list)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Put("/", s.put)
			r.Delete("/", s.delete)
			r.Post("/run", s.run)
			r.Get("/dot", s.dot)
			r.Get("/mermaid", s.mermaid)
		})
	})
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": names})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	desc, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := grammar.Marshal(desc, grammar.YAML)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(data)
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	format := grammar.YAML
	if r.Header.Get("Content-Type") == "application/json" {
		format = grammar.JSON
	}
	desc, err := grammar.Parse(data, format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	g, err := desc.Build(&quill.BuilderOpts{Strict: s.strict})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.store.Save(r.Context(), name, desc); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mu.Lock()
	s.graphs[name] = g
	s.mu.Unlock()

	s.logger.Info("graph saved", "name", name, "states", g.Len())
	writeJSON(w, http.StatusCreated, map[string]interface{}{"name": name, "states": g.Len()})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	delete(s.graphs, name)
	s.mu.Unlock()

	if err := s.store.Delete(r.Context(), name); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("graph deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, err := s.graph(r, name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req RunRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	opts := []quill.Option{quill.WithLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, quill.WithObserver(s.metrics.Observer(name)))
	}
	final, err := quill.NewRunner(opts...).Run(g.Entry(), req.Input)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{
		Terminal: final.Name(),
		Accepted: final.Accepting(),
		Steps:    utf8.RuneCountInString(req.Input),
	})
}

func (s *Server) dot(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph(r, chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := quill.ExportDot(g, &buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) mermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph(r, chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var overlay *quill.Overlay
	if input, ok := r.URL.Query()["input"]; ok && len(input) > 0 {
		overlay = quill.OverlayOf(g.Entry(), input[0])
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, quill.GenerateMermaid(g, overlay))
}

// graph returns the built graph stored under name.
func (s *Server) graph(r *http.Request, name string) (*quill.Graph, error) {
	s.mu.RLock()
	g, ok := s.graphs[name]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	desc, err := s.store.Load(r.Context(), name)
	if err != nil {
		return nil, err
	}
	g, err = desc.Build(&quill.BuilderOpts{Strict: s.strict})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.graphs[name] = g
	s.mu.Unlock()
	return g, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
