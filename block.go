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

// DigestBlock builds a digest with one Bloom filter pinned to each
// fixed-size block of data, rather than letting filters roll opportunistically
// as DigestStream does. A blockSize of zero selects Config.BlockSize.
//
// Block ("dd") mode is positional: filter i always corresponds to bytes
// [i*blockSize, (i+1)*blockSize) of the input, which makes it suitable for
// locating *where* two files overlap, at the cost of wasting filter
// capacity on low-entropy blocks.
func (g *Generator) DigestBlock(name string, data []byte, blockSize int) (*Digest, error) {
	if len(data) < g.cfg.MinFileSize {
		return nil, ErrInputTooSmall
	}
	if blockSize <= 0 {
		blockSize = g.cfg.BlockSize
	}
	if blockSize <= entropy.WindowSize {
		return nil, ErrChunkTooSmall
	}

	d := NewDigest(name)
	d.MaxElem = g.cfg.MaxElem
	d.DDBlockSize = uint32(blockSize)

	fileSize := len(data)
	qt := fileSize / blockSize
	rem := fileSize % blockSize

	filterCount := qt
	hasTail := rem >= g.cfg.MinFileSize
	if hasTail {
		filterCount++
	}
	if filterCount == 0 {
		return nil, ErrInputTooSmall
	}

	d.BFCount = uint32(filterCount)
	d.LastCount = 0
	d.Buffer = make([]byte, filterCount*bf.Size)
	d.ElemCounts = make([]uint16, filterCount)

	ranks := make([]uint16, blockSize)
	scores := make([]uint16, blockSize)
	histo := make([]int32, entropy.HistogramBins)

	for blockNum := 0; blockNum < qt; blockNum++ {
		blockOffset := blockNum * blockSize

		entropy.GenerateRanks(data[blockOffset:], blockSize, ranks, 0)
		for i := range histo {
			histo[i] = 0
		}
		entropy.GenerateScores(ranks, blockSize, scores, histo)

		threshold, allowed := admissionScan(histo, g.cfg.Threshold, g.cfg.MaxElem)
		g.populateBlock(data, blockOffset, blockNum, scores, blockSize, threshold, allowed, d)
		g.metrics.add(chunksProcessed, 1)
	}

	if hasTail {
		blockOffset := qt * blockSize
		entropy.GenerateRanks(data[blockOffset:], rem, ranks, 0)
		entropy.GenerateScores(ranks, rem, scores, nil)
		g.populateBlock(data, blockOffset, qt, scores, rem, uint32(g.cfg.Threshold), int32(d.MaxElem), d)
		g.metrics.add(chunksProcessed, 1)
	}

	return d, nil
}

// admissionScan derives the effective threshold k and the tie-band quota
// allowed from a score histogram: starting at k=65, it accumulates
// histo[k] downward while the running sum stays within maxElem, stopping
// at k==threshold even if there was still room. The scan's purpose is to
// relax the fixed threshold upward on low-entropy blocks that would
// otherwise admit far more than maxElem features.
func admissionScan(histo []int32, threshold uint16, maxElem uint32) (k uint32, allowed int32) {
	var sum uint32
	kk := 65
	for {
		if sum <= maxElem && sum+uint32(histo[kk]) > maxElem {
			break
		}
		sum += uint32(histo[kk])
		kk--
		if kk <= int(threshold) {
			break
		}
	}
	return uint32(kk), int32(maxElem) - int32(sum)
}

// populateBlock is gen_block_hash: every offset in [0, maxOffset-popWin)
// of the block at blockOffset is hashed and folded into the one filter
// reserved for this block. An offset exactly at the effective threshold
// is admitted only while allowed remains positive; strictly above it, it
// is always admitted.
//
// Like the stream populator, the SHA-1 input runs from the feature offset
// to the end of the whole input buffer rather than a fixed window -- the
// same "hash past the intended window" behavior documented for
// DigestStream, reproduced here relative to the block's own position in
// the file. (The reference's block-mode populator instead hashes from
// the bare within-block offset regardless of which block is being
// processed, which would make every block but the first hash bytes near
// the start of the file; nothing describes that as intentional, so it is
// treated here as an unrelated defect rather than a quirk to reproduce.)
func (g *Generator) populateBlock(data []byte, blockOffset, blockNum int, scores []uint16, blockSize int, threshold uint32, allowed int32, d *Digest) {
	popWin := entropy.WindowSize
	filter := d.Buffer[blockNum*int(d.BFSize) : (blockNum+1)*int(d.BFSize)]

	maxOffset := blockSize
	var hashCount uint16

	for i := 0; i < maxOffset-popWin; i++ {
		score := uint32(scores[i])
		admit := score > threshold || (score == threshold && allowed > 0)
		if !admit {
			continue
		}
		g.metrics.add(featuresAdmitted, 1)

		digest := sha1.Sum(data[blockOffset+i:])
		words := bf.Words(digest)

		if bf.Insert(filter, 0, words) == 0 {
			continue
		}
		g.metrics.add(elementsInserted, 1)
		hashCount++
		if score == threshold {
			allowed--
		}
	}

	d.ElemCounts[blockNum] = hashCount
}
