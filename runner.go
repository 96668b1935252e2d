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

package quill

import (
	"io"
	"log/slog"
)

// Observer is notified of the progress of runs made by a Runner.
// Observers shared between goroutines must be safe for concurrent use.
type Observer interface {
	OnStep(from, to State, r rune)
	OnDone(final State, steps int, err error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used by the Runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver adds an observer to the Runner.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// Runner is a driver that reports every run to its logger and observers.
// It returns the same results and errors as Run.
type Runner struct {
	logger    *slog.Logger
	observers []Observer
}

// NewRunner returns a Runner configured with opts.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives entry over input.
func (r *Runner) Run(entry State, input string) (State, error) {
	c := NewCursor(entry)
	for _, sym := range input {
		from := c.State()
		if err := c.Step(sym); err != nil {
			r.done(from, c.Steps(), err)
			return State{}, err
		}
		for _, o := range r.observers {
			o.OnStep(from, c.State(), sym)
		}
	}
	r.done(c.State(), c.Steps(), nil)
	return c.State(), nil
}

// Accepts drives entry over input and reports whether the terminal
// state is accepting.
func (r *Runner) Accepts(entry State, input string) (bool, error) {
	final, err := r.Run(entry, input)
	if err != nil {
		return false, err
	}
	return final.Accepting(), nil
}

func (r *Runner) done(final State, steps int, err error) {
	if err != nil {
		r.logger.Warn("run faulted", "state", final.Name(), "steps", steps, "error", err)
	} else {
		r.logger.Debug("run finished", "terminal", final.Name(), "steps", steps, "accepting", final.Accepting())
	}
	for _, o := range r.observers {
		o.OnDone(final, steps, err)
	}
}
