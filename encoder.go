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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const headerSize = 16
const footerSize = 16

// graphType identifies quill graphs in the header of an encoded file.
const graphType = 0x716661

// ErrNotEncodable is returned when encoding a graph with rule states,
// Compile it first.
var ErrNotEncodable = errors.New("rule states cannot be encoded")

// ErrCorrupt is returned when decoding malformed data.
var ErrCorrupt = errors.New("corrupt graph encoding")

// ErrUnknownVersion is returned for encoding versions with no registered
// encoder or decoder.
var ErrUnknownVersion = errors.New("unknown encoding version")

type encoderConstructor func(w io.Writer) encoder

var encoders = map[int]encoderConstructor{}

type encoder interface {
	start(g *Graph) error
	encodeState(g *Graph, id StateID) error
	finish(g *Graph) error
}

func loadEncoder(ver int, w io.Writer) (encoder, error) {
	if cons, ok := encoders[ver]; ok {
		return cons(w), nil
	}
	return nil, fmt.Errorf("%w: no encoder for version %d registered", ErrUnknownVersion, ver)
}

func registerEncoder(ver int, cons encoderConstructor) {
	encoders[ver] = cons
}

type decoderConstructor func(data []byte) decoder

var decoders = map[int]decoderConstructor{}

type decoder interface {
	decode() (*Graph, error)
}

func loadDecoder(ver int, data []byte) (decoder, error) {
	if cons, ok := decoders[ver]; ok {
		return cons(data), nil
	}
	return nil, fmt.Errorf("%w: no decoder for version %d registered", ErrUnknownVersion, ver)
}

func registerDecoder(ver int, cons decoderConstructor) {
	decoders[ver] = cons
}

// Encode writes g to w using the latest encoding version.
func Encode(g *Graph, w io.Writer) error {
	return EncodeVersion(g, w, versionV1)
}

// EncodeVersion writes g to w using the specified encoding version.
func EncodeVersion(g *Graph, w io.Writer, ver int) error {
	for i := range g.states {
		if g.states[i].strategy != StrategyTable {
			return fmt.Errorf("state %q: %w", g.states[i].name, ErrNotEncodable)
		}
	}
	enc, err := loadEncoder(ver, w)
	if err != nil {
		return err
	}
	err = enc.start(g)
	if err != nil {
		return err
	}
	for i := range g.states {
		err = enc.encodeState(g, StateID(i))
		if err != nil {
			return err
		}
	}
	return enc.finish(g)
}

// Load decodes a graph previously written by Encode.
func Load(data []byte) (*Graph, error) {
	ver, typ, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if typ != graphType {
		return nil, fmt.Errorf("%w: unknown type %#x", ErrCorrupt, typ)
	}
	dec, err := loadDecoder(ver, data)
	if err != nil {
		return nil, err
	}
	return dec.decode()
}

func decodeHeader(header []byte) (ver int, typ int, err error) {
	if len(header) < headerSize+footerSize {
		err = fmt.Errorf("%w: data shorter than header and footer", ErrCorrupt)
		return
	}
	ver = int(binary.LittleEndian.Uint64(header[0:8]))
	typ = int(binary.LittleEndian.Uint64(header[8:16]))
	return
}
