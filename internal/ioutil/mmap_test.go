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

package ioutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenMappedFileReadsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	want := []byte("the quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	mapped, err := OpenMappedFile(path)
	require.NoError(t, err)
	defer mapped.Close()

	require.Equal(t, want, mapped.Data)
}

func TestOpenMappedFileRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := OpenMappedFile(path)
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestOpenMappedFileMissingFile(t *testing.T) {
	_, err := OpenMappedFile(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}
