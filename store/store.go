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

// Package store persists graph descriptions by name.
package store

import (
	"context"
	"errors"
	"regexp"

	"github.com/couchbase/quill/grammar"
)

// ErrNotFound is returned when no description is stored under a name.
var ErrNotFound = errors.New("description not found")

// ErrInvalidName is returned for names that are not safe to store.
var ErrInvalidName = errors.New("invalid description name")

// Store persists graph descriptions.
type Store interface {
	Save(ctx context.Context, name string, desc *grammar.Description) error
	Load(ctx context.Context, name string) (*grammar.Description, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// CheckName returns ErrInvalidName unless name is made of letters,
// digits, dots, dashes and underscores and does not start with a
// punctuation character.
func CheckName(name string) error {
	if !validName.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
