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

package bf

import (
	"math"
	"sync"
)

// EstimateCache memoizes MatchEstimate results keyed by (s1, s2) for the
// common == 0 case, where the estimate depends only on the two filters'
// element counts and not on any observed intersection. The reference
// implementation keeps this as a single unsynchronized global static,
// which is a data race under any concurrent use; here the cache is an
// explicit value guarded by a reader-writer lock, so callers that want
// isolation (e.g. one cache per worker goroutine) can construct their own
// and callers happy with a shared cache can use the package-level default.
type EstimateCache struct {
	mu    sync.RWMutex
	table [256][256]uint16
}

// NewEstimateCache returns an empty, ready-to-use cache.
func NewEstimateCache() *EstimateCache {
	return &EstimateCache{}
}

var defaultEstimateCache = NewEstimateCache()

// MatchEstimate computes the expected number of common elements between two
// filters of m bits using k sub-hashes each, given their element counts s1
// and s2 and an observed common-bit popcount, using the package-level
// shared cache. See EstimateCache.MatchEstimate for the formula.
func MatchEstimate(m, k, s1, s2, common uint32) uint32 {
	return defaultEstimateCache.MatchEstimate(m, k, s1, s2, common)
}

// MatchEstimate computes
//
//	E = m * (1 - (1-1/m)^(k*s1) - (1-1/m)^(k*32) + (1-1/m)^(k*(s1+s2-common)))
//
// rounded to the nearest integer. The "k*32" term is not a typo for k*s2:
// the reference estimator hard-codes 32 there, and preserving it is
// required for cross-implementation compatibility of the resulting score.
func (c *EstimateCache) MatchEstimate(m, k, s1, s2, common uint32) uint32 {
	if common == 0 {
		c.mu.RLock()
		cached := c.table[uint8(s1)][uint8(s2)]
		c.mu.RUnlock()
		if cached > 0 {
			return uint32(cached)
		}
	}

	// s1+s2-common is computed in the reference as a wrapping unsigned
	// subtraction that is then reinterpreted ("as i32") as a small signed
	// value -- common routinely exceeds s1+s2 for two well-populated,
	// similar filters, and losing that sign here drives the exponent to
	// a huge unsigned magnitude instead of a small negative one, which
	// collapses the estimate toward 0 instead of correctly exceeding m.
	tailExponent := int64(k) * (int64(s1) + int64(s2) - int64(common))

	ex := 1.0 - 1.0/float64(m)
	estimate := float64(m) * (1.0 -
		math.Pow(ex, float64(k*s1)) -
		math.Pow(ex, float64(k*32)) +
		math.Pow(ex, float64(tailExponent)))
	rounded := math.Round(estimate)

	// Rust's "as" cast from float to an unsigned integer saturates (NaN
	// and negatives become 0, values above the max become the max); a
	// plain Go conversion does not, so negative and out-of-range results
	// are clamped explicitly to keep the two behaviors equivalent.
	var result uint32
	switch {
	case rounded <= 0:
		result = 0
	case rounded >= math.MaxUint32:
		result = math.MaxUint32
	default:
		result = uint32(rounded)
	}

	if common == 0 {
		c.mu.Lock()
		c.table[uint8(s1)][uint8(s2)] = uint16(result)
		c.mu.Unlock()
	}
	return result
}
