/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ioutil loads whole files into memory for digesting, preferring a
// read-only mmap so that large corpora don't need one full heap copy per
// file.
package ioutil

import (
	"os"

	"github.com/pkg/errors"
)

// MappedFile is a read-only view of a file's contents backed by mmap where
// the platform supports it. Callers must call Close when done to release
// the mapping.
type MappedFile struct {
	Data []byte
	fd   *os.File
}

// OpenMappedFile maps the named file read-only. Empty files return
// ErrEmptyFile, since there's nothing to mmap and nothing to digest.
func OpenMappedFile(name string) (*MappedFile, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open: %s", name)
	}

	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "cannot stat file: %s", name)
	}
	if fi.Size() == 0 {
		fd.Close()
		return nil, ErrEmptyFile
	}

	data, err := mmapReadOnly(fd, fi.Size())
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "while mmapping %s", name)
	}

	return &MappedFile{Data: data, fd: fd}, nil
}

// Close unmaps the file and closes its descriptor.
func (m *MappedFile) Close() error {
	if m.Data != nil {
		if err := munmap(m.Data); err != nil {
			return errors.Wrapf(err, "while munmap file: %s", m.fd.Name())
		}
		m.Data = nil
	}
	return m.fd.Close()
}

// ErrEmptyFile is returned by OpenMappedFile for a zero-length input.
var ErrEmptyFile = errors.New("ioutil: file is empty")
