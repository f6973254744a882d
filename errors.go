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

package sdbf

import "github.com/pkg/errors"

// ErrInputTooSmall is returned when a digest is requested for an input
// shorter than Config.MinFileSize. The caller gets no digest back.
var ErrInputTooSmall = errors.New("sdbf: input smaller than minimum file size")

// ErrChunkTooSmall is returned when a size does not exceed the popularity
// window: by NewGenerator for Config.BlockSize, by DigestStream for its
// chunkSize and by DigestBlock for its blockSize. This is a contract
// violation on the caller's part, not a runtime condition.
var ErrChunkTooSmall = errors.New("sdbf: chunk size must exceed the popularity window size")

// ErrSizeMismatch is returned by Compare when the two digests' filters are
// not the same size. This is a contract violation: the comparison kernel
// requires equal-length filters.
var ErrSizeMismatch = errors.New("sdbf: filters being compared have mismatched sizes")
