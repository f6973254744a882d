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

import "github.com/malwaredb/sdbf-go/internal/bf"

// Compare scores the similarity of two digests in [0, 1]: for every pair
// of filters (one from a, one from b) it estimates the expected number of
// shared elements from the observed common-bit count, normalizes by the
// smaller of the two filters' element counts, and keeps the best match
// found for each of a's filters. The per-filter maxima are averaged,
// weighted by a's element counts, to produce the final score.
//
// Aggregation across filter pairs is a policy choice left unspecified by
// the comparison primitives themselves (bf.BitcountCut256, bf.MatchEstimate);
// this is one reasonable choice -- best-match-per-source-filter, weighted
// by how much of the source the filter represents -- not the only one a
// caller might want.
func Compare(a, b *Digest) (float32, error) {
	if a.BFSize != b.BFSize {
		return 0, ErrSizeMismatch
	}
	if len(a.Hamming) != int(a.BFCount) {
		a.ComputeHamming()
	}
	if len(b.Hamming) != int(b.BFCount) {
		b.ComputeHamming()
	}

	var weightedSum float64
	var totalWeight float64

	for i := 0; i < int(a.BFCount); i++ {
		s1 := a.ElemCount(i)
		if s1 == 0 {
			continue
		}
		fa := a.filterAt(i)

		var best uint32
		for j := 0; j < int(b.BFCount); j++ {
			s2 := b.ElemCount(j)
			if s2 == 0 {
				continue
			}
			fb := b.filterAt(j)

			common := bf.BitcountCut256(fa, fb, 0, 0)
			if common == 0 {
				continue
			}

			est := bf.MatchEstimate(bf.Size*8, a.HashCount, s1, s2, common)
			minElem := s1
			if s2 < minElem {
				minElem = s2
			}
			normalized := uint32(0)
			if minElem > 0 {
				normalized = est * 100 / minElem
				if normalized > 100 {
					normalized = 100
				}
			}
			if normalized > best {
				best = normalized
			}
		}

		weightedSum += float64(best) * float64(s1)
		totalWeight += float64(s1)
	}

	if totalWeight == 0 {
		return 0, nil
	}
	return float32(weightedSum/totalWeight) / 100, nil
}
