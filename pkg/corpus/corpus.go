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

// Package corpus runs pairwise digest comparisons over a batch of digests
// and reports the pairs that clear a similarity threshold. It is the
// all-pairs driver that sdbf.Compare itself deliberately leaves outside
// the comparison kernel.
package corpus

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	sdbf "github.com/malwaredb/sdbf-go"
	"github.com/malwaredb/sdbf-go/internal/chunkfeed"
)

type entry struct {
	digest  *sdbf.Digest
	content uint64
}

// Corpus accumulates digests and scans them for pairwise similarity.
type Corpus struct {
	threshold float32
	entries   []entry
	buckets   *bucketSketch
}

// New returns an empty corpus that reports matches scoring at or above
// threshold (a value in [0, 1], as returned by sdbf.Compare).
func New(threshold float32) *Corpus {
	return &Corpus{
		threshold: threshold,
		buckets:   newBucketSketch(256),
	}
}

// Add registers a digest for future scans. Digests are not deduplicated on
// Add -- two entries with byte-identical filter clusters are kept and,
// when compared, are scored 1 without invoking the comparison kernel.
func (c *Corpus) Add(d *sdbf.Digest) {
	c.entries = append(c.entries, entry{
		digest:  d,
		content: xxhash.Sum64(d.Buffer),
	})
	c.buckets.Increment(bucketKey(d))
}

// Len returns the number of digests added so far.
func (c *Corpus) Len() int { return len(c.entries) }

// BucketPopulation estimates how many added digests share d's filter
// count, as a (lossy, 4-bit-saturating) approximate count rather than an
// exact one -- callers use it to gauge how much of the corpus resembles d
// in shape before committing to a full scan.
func (c *Corpus) BucketPopulation(d *sdbf.Digest) uint64 {
	return c.buckets.Estimate(bucketKey(d))
}

func bucketKey(d *sdbf.Digest) []byte {
	return []byte(strconv.Itoa(int(d.BFCount)))
}

// Scan compares every distinct pair of added digests once and pushes
// every pair scoring at or above the corpus threshold to out. Comparisons
// between digests with byte-identical buffers are short-circuited to a
// score of 1 without calling sdbf.Compare.
func (c *Corpus) Scan(out chunkfeed.Consumer) error {
	buf := chunkfeed.NewBuffer(chunkfeed.Lossless, &chunkfeed.Config{
		Consumer: out,
		Stripes:  4,
		Capacity: 32,
	})

	for i := 0; i < len(c.entries); i++ {
		for j := i + 1; j < len(c.entries); j++ {
			a, b := c.entries[i], c.entries[j]

			score := float32(1)
			if a.content != b.content {
				var err error
				score, err = sdbf.Compare(a.digest, b.digest)
				if err != nil {
					return err
				}
			}
			if score >= c.threshold {
				buf.Push(chunkfeed.Match{A: a.digest.Name, B: b.digest.Name, Score: score})
			}
		}
	}
	return nil
}
