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

// Package metrics exports quill runs as prometheus metrics.
package metrics

import (
	"errors"

	"github.com/couchbase/quill"
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds the metric vectors shared by every Observer
// registered on the same Registerer.
type Collectors struct {
	steps  *prometheus.CounterVec
	runs   *prometheus.CounterVec
	faults *prometheus.CounterVec
	length *prometheus.HistogramVec
}

// NewCollectors creates the quill metric vectors and registers them
// with reg.  Vectors already registered are reused.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_steps_total",
				Help: "Total number of symbols consumed",
			},
			[]string{"graph"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_runs_total",
				Help: "Total number of completed runs by terminal state",
			},
			[]string{"graph", "terminal"},
		),
		faults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_faults_total",
				Help: "Total number of runs that hit a transition fault",
			},
			[]string{"graph"},
		),
		length: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_run_length",
				Help:    "Number of symbols consumed per run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"graph"},
		),
	}
	var err error
	if c.steps, err = register(reg, c.steps); err != nil {
		return nil, err
	}
	if c.runs, err = register(reg, c.runs); err != nil {
		return nil, err
	}
	if c.faults, err = register(reg, c.faults); err != nil {
		return nil, err
	}
	if c.length, err = register(reg, c.length); err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observer records the runs of one graph.
type Observer struct {
	graph string
	c     *Collectors
}

// New returns an Observer labelling its samples with graph.
func New(reg prometheus.Registerer, graph string) (*Observer, error) {
	c, err := NewCollectors(reg)
	if err != nil {
		return nil, err
	}
	return c.Observer(graph), nil
}

// Observer returns an Observer for graph sharing the vectors of c.
func (c *Collectors) Observer(graph string) *Observer {
	return &Observer{graph: graph, c: c}
}

// OnStep implements quill.Observer.
func (o *Observer) OnStep(from, to quill.State, r rune) {
	o.c.steps.WithLabelValues(o.graph).Inc()
}

// OnDone implements quill.Observer.
func (o *Observer) OnDone(final quill.State, steps int, err error) {
	o.c.length.WithLabelValues(o.graph).Observe(float64(steps))
	if err != nil {
		o.c.faults.WithLabelValues(o.graph).Inc()
		return
	}
	o.c.runs.WithLabelValues(o.graph, final.Name()).Inc()
}

var _ quill.Observer = (*Observer)(nil)
