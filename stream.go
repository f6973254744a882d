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

import (
	"crypto/sha1"

	"github.com/malwaredb/sdbf-go/internal/bf"
	"github.com/malwaredb/sdbf-go/internal/entropy"
)

// DigestStream builds a digest by walking data in fixed-size chunks,
// re-synchronizing the rank/score pipeline at each chunk boundary. A
// chunkSize of zero selects DefaultChunkSize.
//
// This is the sequential ("stream") digest mode: filters fill up to
// Config.MaxElem distinct-bit insertions and then roll to a fresh one, so
// the resulting filter count tracks how much *new* content was seen
// rather than the input's raw length.
func (g *Generator) DigestStream(name string, data []byte, chunkSize int) (*Digest, error) {
	if len(data) < g.cfg.MinFileSize {
		return nil, ErrInputTooSmall
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize <= entropy.WindowSize {
		return nil, ErrChunkTooSmall
	}

	d := NewDigest(name)
	d.MaxElem = g.cfg.MaxElem

	fileSize := len(data)
	buffSize := (fileSize>>11 + 1) << 8
	if buffSize < bf.Size {
		buffSize = bf.Size
	}
	d.Buffer = make([]byte, buffSize)

	qt := fileSize / chunkSize
	rem := fileSize % chunkSize

	ranks := make([]uint16, chunkSize)
	scores := make([]uint16, chunkSize)

	chunkPos := 0
	for i := 0; i < qt; i++ {
		entropy.GenerateRanks(data[chunkPos:], chunkSize, ranks, 0)
		entropy.GenerateScores(ranks, chunkSize, scores, nil)
		g.populateStream(data, chunkPos, scores, chunkSize, d)
		g.metrics.add(chunksProcessed, 1)
		chunkPos += chunkSize
	}

	if rem > 0 {
		entropy.GenerateRanks(data[chunkPos:], rem, ranks, 0)
		entropy.GenerateScores(ranks, rem, scores, nil)
		g.populateStream(data, chunkPos, scores, rem, d)
		g.metrics.add(chunksProcessed, 1)
	}

	if d.BFCount > 1 && d.LastCount < d.MaxElem/8 {
		d.BFCount--
		d.LastCount = d.MaxElem
		g.metrics.add(tailFiltersTrimmed, 1)
	}

	if used := int(d.BFCount) * int(d.BFSize); used < len(d.Buffer) {
		d.Buffer = d.Buffer[:used]
	}

	return d, nil
}

// populateStream is gen_chunk_hash: it hashes every admitted offset in
// [chunkPos, chunkPos+chunkSize-WindowSize) and folds the result into d's current
// filter, rolling to a new one every MaxElem distinct insertions.
//
// The SHA-1 input is file[chunkPos+i:] -- the entire remainder of the
// buffer, not a fixed window. That asymmetry traces back to the reference
// implementation and is preserved deliberately: it changes which bits a
// given offset sets, so digests computed with a "corrected" fixed window
// would not compare against anything produced by the reference tool.
//
// The reference recomputes its "current filter" pointer at the top of
// every call as a byte offset of (bf_count-1), not (bf_count-1)*bf_size;
// that formula only happens to be correct for the very first filter
// (bf_count==1, offset 0) and desyncs on any chunk after a mid-stream
// rollover. Nothing in the digest format description asks for that
// desync, so the offset is tracked correctly here and carried across
// chunk boundaries instead of being rederived.
func (g *Generator) populateStream(data []byte, chunkPos int, scores []uint16, chunkSize int, d *Digest) {
	bfSize := int(d.BFSize)
	popWin := entropy.WindowSize
	currOffset := (int(d.BFCount) - 1) * bfSize

	for i := 0; i < chunkSize-popWin; i++ {
		if scores[i] <= g.cfg.Threshold {
			continue
		}
		g.metrics.add(featuresAdmitted, 1)

		digest := sha1.Sum(data[chunkPos+i:])
		words := bf.Words(digest)

		g.growBuffer(d, currOffset+bfSize)
		filter := d.Buffer[currOffset : currOffset+bfSize]
		if bf.Insert(filter, 0, words) == 0 {
			continue
		}
		g.metrics.add(elementsInserted, 1)

		d.LastCount++
		if d.LastCount == d.MaxElem {
			currOffset += bfSize
			d.BFCount++
			d.LastCount = 0
			g.metrics.add(filtersRolled, 1)
		}
	}
}

// growBuffer extends d.Buffer so that byte index need-1 is addressable.
// The reference's buffer-size estimate -- one filter per roughly 2KB of
// input -- is generous enough in practice that this is a safety net, not
// a normal code path; the reference itself carries an unresolved TODO
// acknowledging it never implemented this reallocation.
func (g *Generator) growBuffer(d *Digest, need int) {
	if need <= len(d.Buffer) {
		return
	}
	grown := make([]byte, need)
	copy(grown, d.Buffer)
	d.Buffer = grown
}
