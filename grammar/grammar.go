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

// Package grammar reads and writes declarative descriptions of quill
// graphs in YAML or JSON.
//
// A state with a default is a rule state, every symbol not listed in
// its edges goes to the default.  Any other state is a table state,
// optionally with a fallback for unlisted symbols.  Edge keys are
// symbol sets, every rune of the key moves to the target.
//
//	name: binary
//	entry: digit
//	alphabet: "01d"
//	accepting: [digit]
//	states:
//	  - name: digit
//	    edges: {"01": digit}
//	    default: error
//	  - name: error
//	    default: error
package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a Description.
type Format int

const (
	// YAML is the default format.
	YAML Format = iota
	// JSON format.
	JSON
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return JSON
	}
	return YAML
}

// ErrUnknownState is returned when a description refers to a state it
// does not define.
var ErrUnknownState = errors.New("unknown state")

// ErrDuplicateState is returned when two states share a name.
var ErrDuplicateState = errors.New("duplicate state")

// ErrConflict is returned for a state with both a default and a fallback.
var ErrConflict = errors.New("state has both default and fallback")

// Description is the declarative form of a graph.
type Description struct {
	Name      string   `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Entry     string   `yaml:"entry,omitempty" json:"entry,omitempty" mapstructure:"entry"`
	Alphabet  string   `yaml:"alphabet,omitempty" json:"alphabet,omitempty" mapstructure:"alphabet"`
	Accepting []string `yaml:"accepting,omitempty" json:"accepting,omitempty" mapstructure:"accepting"`
	States    []State  `yaml:"states" json:"states" mapstructure:"states"`
}

// State describes one state of a graph.
type State struct {
	Name     string            `yaml:"name" json:"name" mapstructure:"name"`
	Edges    map[string]string `yaml:"edges,omitempty" json:"edges,omitempty" mapstructure:"edges"`
	Default  string            `yaml:"default,omitempty" json:"default,omitempty" mapstructure:"default"`
	Fallback string            `yaml:"fallback,omitempty" json:"fallback,omitempty" mapstructure:"fallback"`
}

// Parse decodes a description.  The document is first read into a
// generic map, then decoded into a Description.  YAML scalars are kept
// as their source text, so an unquoted key such as 01 keeps both
// symbols.
func Parse(data []byte, format Format) (*Description, error) {
	var raw interface{}
	switch format {
	case JSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		var err error
		raw, err = plainValue(&doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}
	if _, ok := raw.(map[string]interface{}); !ok && raw != nil {
		return nil, fmt.Errorf("description must be a mapping, got %T", raw)
	}

	var desc Description
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &desc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode description: %w", err)
	}
	return &desc, nil
}

// plainValue converts a YAML node into maps, slices and strings.
// Scalars keep their source text, nulls become nil.
func plainValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return plainValue(n.Content[0])
	case yaml.AliasNode:
		return plainValue(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		rv := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := plainValue(c)
			if err != nil {
				return nil, err
			}
			rv = append(rv, v)
		}
		return rv, nil
	case yaml.MappingNode:
		rv := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := plainValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			rv[k.Value] = v
		}
		return rv, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// Load reads the description at path, in the format implied by its
// extension.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	return Parse(data, FormatOf(path))
}

// Marshal encodes desc.
func Marshal(desc *Description, format Format) ([]byte, error) {
	if format == JSON {
		return json.MarshalIndent(desc, "", "  ")
	}
	return yaml.Marshal(desc)
}

func sortedKeys(m map[string]string) []string {
	rv := make([]string, 0, len(m))
	for k := range m {
		rv = append(rv, k)
	}
	sort.Strings(rv)
	return rv
}
