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

package corpus

import farm "github.com/dgryski/go-farm"

// bucketSketch is a Count-Min sketch with 4-bit counters, used to estimate
// how many digests added to a Corpus fall into the same coarse
// filter-count bucket -- a cheap proxy for "how much scan work touches
// digests shaped like this one" without keeping an exact per-bucket count.
//
// Heavily based on the reference's 4-bit counting sketch; the only
// material change is the hash, which is go-farm's Fingerprint64 in place
// of FNV-64a, since bucket keys here are short byte strings rather than
// cache keys. (Corpus's content dedup uses xxhash, not this hash.)
type bucketSketch struct {
	row  []byte
	mask uint64
}

func newBucketSketch(numCounters uint64) *bucketSketch {
	if numCounters == 0 {
		panic("corpus: bad numCounters")
	}
	numCounters = next2Power(numCounters)
	return &bucketSketch{
		row:  make([]byte, numCounters/2),
		mask: numCounters - 1,
	}
}

func (s *bucketSketch) Increment(key []byte) {
	n := farm.Fingerprint64(key) & s.mask
	i := n / 2
	shift := (n & 1) * 4
	v := (s.row[i] >> shift) & 0x0f
	if v < 15 {
		s.row[i] += 1 << shift
	}
}

func (s *bucketSketch) Estimate(key []byte) uint64 {
	n := farm.Fingerprint64(key) & s.mask
	v := byte(s.row[n/2]>>((n&1)*4)) & 0x0f
	return uint64(v)
}

func (s *bucketSketch) Reset() {
	for i := range s.row {
		s.row[i] = (s.row[i] >> 1) & 0x77
	}
}

// next2Power rounds x up to the next power of 2, if it's not already one.
func next2Power(x uint64) uint64 {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}
