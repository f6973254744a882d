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

// Package entropy implements the rolling 64-byte Shannon-entropy estimator,
// the entropy-to-rank quantizer, and the sliding-window popularity scorer
// that together decide which byte offsets become Bloom-filter features.
package entropy

import "math"

const (
	// WindowSize is the width of both the entropy and popularity windows.
	WindowSize = 64

	// Bins is the number of discrete entropy bins the scale is stretched
	// over before the fixed-point shift.
	Bins = 1000

	// Power is the number of fractional bits the entropy scale reserves;
	// ranks are looked up by entropy >> Power.
	Power = 10

	// Scale is the fixed-point range of a raw entropy value:
	// Bins * 2^Power.
	Scale = Bins * (1 << Power)

	// BlockSize is the default stride (in bytes) at which the entropy
	// window is recomputed from scratch instead of updated incrementally,
	// bounding rounding drift.
	BlockSize = 4096
)

// contribution[n] is the fixed-point entropy contribution of a byte value
// that occurs n times in a 64-byte window:
//
//	contribution[n] = floor( (-p*log2(p)/6) * Scale ),  p = n/64
//
// contribution[0] is 0 by definition (an absent byte contributes nothing).
// The reference implementation truncates rather than rounds this value
// (Rust's `as u64` cast); spec prose describes it as a rounded table, but
// truncation is what the original computes and what downstream digests
// must match bit-for-bit, so it's what this table reproduces.
var contribution [WindowSize + 1]uint64

func init() {
	for n := 1; n <= WindowSize; n++ {
		p := float64(n) / float64(WindowSize)
		v := (-p * math.Log2(p) / 6.0) * float64(Scale)
		contribution[n] = uint64(v)
	}
}
