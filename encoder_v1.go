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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const versionV1 = 1

const stateAccepting = 1 << 0
const stateFallback = 1 << 1
const stateRowRef = 1 << 2

func init() {
	registerEncoder(versionV1, func(w io.Writer) encoder {
		return newEncoderV1(w)
	})
	registerDecoder(versionV1, func(data []byte) decoder {
		return newDecoderV1(data)
	})
}

// encoderV1 writes, after the header, the alphabet and then one record
// per state:
//
//	name length, name, flags, [fallback], row ref | inline row
//
// An inline row is the entry count followed by (symbol delta, target)
// pairs in symbol order.  The footer holds the state count and the
// entry state.  All record fields are uvarints.
type encoderV1 struct {
	w        *bufio.Writer
	counter  int
	registry *registry
	rows     int
	buf      [binary.MaxVarintLen64]byte
}

func newEncoderV1(w io.Writer) *encoderV1 {
	return &encoderV1{
		w: bufio.NewWriter(w),
	}
}

func (e *encoderV1) start(g *Graph) error {
	e.registry = newRegistry(len(g.states), 2)
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(header, versionV1)
	binary.LittleEndian.PutUint64(header[8:], uint64(graphType))
	n, err := e.w.Write(header)
	if err != nil {
		return err
	}
	e.counter += n
	if n != headerSize {
		return fmt.Errorf("short write of header %d/%d", n, headerSize)
	}
	return e.writeString(string(g.alphabet))
}

func (e *encoderV1) encodeState(g *Graph, id StateID) error {
	st := &g.states[id]
	err := e.writeString(st.name)
	if err != nil {
		return err
	}

	r := newRow(st.table)
	equiv := e.registry.entry(r)

	var flags byte
	if st.accepting {
		flags |= stateAccepting
	}
	if st.fallback != NoState {
		flags |= stateFallback
	}
	if equiv != nil {
		flags |= stateRowRef
	}
	err = e.w.WriteByte(flags)
	if err != nil {
		return err
	}
	e.counter++

	if st.fallback != NoState {
		err = e.writeUvarint(uint64(st.fallback))
		if err != nil {
			return err
		}
	}
	if equiv != nil {
		return e.writeUvarint(uint64(equiv.id))
	}

	r.id = e.rows
	e.rows++
	err = e.writeUvarint(uint64(len(r.keys)))
	if err != nil {
		return err
	}
	var prev rune
	for i := range r.keys {
		err = e.writeUvarint(uint64(r.keys[i] - prev))
		if err != nil {
			return err
		}
		prev = r.keys[i]
		err = e.writeUvarint(uint64(r.dests[i]))
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *encoderV1) finish(g *Graph) error {
	footer := make([]byte, footerSize)
	binary.LittleEndian.PutUint64(footer, uint64(len(g.states)))
	binary.LittleEndian.PutUint64(footer[8:], uint64(g.entry))
	n, err := e.w.Write(footer)
	if err != nil {
		return err
	}
	e.counter += n
	return e.w.Flush()
}

func (e *encoderV1) writeUvarint(v uint64) error {
	n := binary.PutUvarint(e.buf[:], v)
	n, err := e.w.Write(e.buf[:n])
	e.counter += n
	return err
}

func (e *encoderV1) writeString(s string) error {
	err := e.writeUvarint(uint64(len(s)))
	if err != nil {
		return err
	}
	n, err := e.w.WriteString(s)
	e.counter += n
	return err
}

type decoderV1 struct {
	data []byte
	pos  int
	end  int
}

func newDecoderV1(data []byte) *decoderV1 {
	return &decoderV1{
		data: data,
		pos:  headerSize,
		end:  len(data) - footerSize,
	}
}

func (d *decoderV1) decode() (*Graph, error) {
	numStates := binary.LittleEndian.Uint64(d.data[d.end:])
	entry := binary.LittleEndian.Uint64(d.data[d.end+8:])
	if numStates == 0 {
		return nil, fmt.Errorf("%w: no states", ErrCorrupt)
	}
	if numStates > uint64(d.end-d.pos) {
		return nil, fmt.Errorf("%w: state count %d exceeds data", ErrCorrupt, numStates)
	}

	alphabet, err := d.readString()
	if err != nil {
		return nil, err
	}
	b := NewBuilder(&BuilderOpts{Alphabet: alphabet})
	var rows []Table
	var accepting []StateID
	for i := uint64(0); i < numStates; i++ {
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		id := b.AddState(name)
		if d.pos >= d.end {
			return nil, fmt.Errorf("%w: truncated state %d", ErrCorrupt, i)
		}
		flags := d.data[d.pos]
		d.pos++

		fallback := NoState
		if flags&stateFallback != 0 {
			v, err := d.readUvarint()
			if err != nil {
				return nil, err
			}
			fallback = StateID(v)
		}

		var table Table
		if flags&stateRowRef != 0 {
			ref, err := d.readUvarint()
			if err != nil {
				return nil, err
			}
			if ref >= uint64(len(rows)) {
				return nil, fmt.Errorf("%w: row ref %d out of range", ErrCorrupt, ref)
			}
			table = rows[ref]
		} else {
			table, err = d.readRow()
			if err != nil {
				return nil, err
			}
			rows = append(rows, table)
		}

		err = b.SetTable(id, table)
		if err != nil {
			return nil, err
		}
		if fallback != NoState {
			err = b.SetFallback(id, fallback)
			if err != nil {
				return nil, err
			}
		}
		if flags&stateAccepting != 0 {
			accepting = append(accepting, id)
		}
	}
	if d.pos != d.end {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, d.end-d.pos)
	}
	err = b.SetEntry(StateID(entry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	err = b.SetAccepting(accepting...)
	if err != nil {
		return nil, err
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return g, nil
}

func (d *decoderV1) readRow() (Table, error) {
	n, err := d.readUvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(d.end-d.pos) {
		return nil, fmt.Errorf("%w: row of %d entries exceeds data", ErrCorrupt, n)
	}
	rv := make(Table, n)
	var prev rune
	for i := uint64(0); i < n; i++ {
		delta, err := d.readUvarint()
		if err != nil {
			return nil, err
		}
		dest, err := d.readUvarint()
		if err != nil {
			return nil, err
		}
		prev += rune(delta)
		rv[prev] = StateID(dest)
	}
	return rv, nil
}

func (d *decoderV1) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.pos:d.end])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad varint at offset %d", ErrCorrupt, d.pos)
	}
	d.pos += n
	return v, nil
}

func (d *decoderV1) readString() (string, error) {
	n, err := d.readUvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(d.end-d.pos) {
		return "", fmt.Errorf("%w: string of %d bytes exceeds data", ErrCorrupt, n)
	}
	rv := string(d.data[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return rv, nil
}
