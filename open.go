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
	"fmt"
	"os"

	mmap "github.com/blevesearch/mmap-go"
)

// Open loads the graph encoded in the file at path.  The file is mapped
// read-only for the duration of the decode, the returned Graph does not
// reference it.
func Open(path string) (g *Graph, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() < headerSize+footerSize {
		return nil, fmt.Errorf("%s: %w: file too small", path, ErrCorrupt)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := mm.Unmap(); err == nil && uerr != nil {
			err = uerr
		}
	}()

	return Load(mm)
}

// EncodeFile writes g to a new file at path.
func EncodeFile(g *Graph, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Encode(g, file)
}
