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

import "encoding/binary"

// Words folds a 20-byte SHA-1 digest into five 32-bit sub-hashes, reading
// each 4-byte group in the platform's native byte order. This mirrors the
// reference implementation's raw transmute of the digest bytes into a
// []u32 -- a documented quirk, not a hashing scheme of our choosing, and
// changing the byte order here would silently change every digest produced
// by this package.
func Words(digest [20]byte) [HashCount]uint32 {
	var words [HashCount]uint32
	for i := range words {
		words[i] = binary.NativeEndian.Uint32(digest[i*4 : i*4+4])
	}
	return words
}

// Insert folds the five sub-hashes of a SHA-1 digest into filter (which must
// be Size bytes long) under the given filter class, and returns the number
// of bits that transitioned from 0 to 1. A return of 0 means every bit the
// hash addressed was already set -- the caller should not count the element
// as newly admitted.
func Insert(filter []byte, class uint8, words [HashCount]uint32) uint32 {
	mask := ClassMasks[class]
	var inserted uint32
	for _, w := range words {
		w &= mask
		byteIdx := w >> 3
		bit := Bits[w&0x7]
		if filter[byteIdx]&bit == 0 {
			inserted++
		}
		filter[byteIdx] |= bit
	}
	return inserted
}

// popcountRange returns popcount(f1[lo:hi] AND f2[lo:hi]) by pairing up
// adjacent bytes and looking up the combined value in BitCount16. Pairing
// order doesn't affect the result: popcount is invariant under byte-swap of
// the 16-bit group being looked up.
func popcountRange(f1, f2 []byte, lo, hi int) uint32 {
	var result uint32
	for i := lo; i < hi; i += 2 {
		v := uint16(f1[i]&f2[i]) | uint16(f1[i+1]&f2[i+1])<<8
		result += uint32(BitCount16[v])
	}
	return result
}

// Bitcount returns popcount(f1 AND f2) over the first size bytes of both
// filters.
func Bitcount(f1, f2 []byte, size int) uint32 {
	return popcountRange(f1, f2, 0, size)
}

// BitcountCut256 computes popcount(f1 AND f2) for two Size-byte filters,
// returning 0 early at three checkpoints (after 32, 64 and 128 bytes)
// whenever the partial count, scaled up to the whole filter, plus slack is
// below cutoff. slack widens the checkpoints to absorb estimation error in
// the caller's own threshold; pass cutoff=0 to disable cutting entirely.
//
// The multipliers (8, 4, 2) are the reciprocals of the fraction of the
// filter each checkpoint has covered (1/8, 1/4, 1/2): they extrapolate the
// partial count as if the rest of the filter were equally dense. This is
// an estimate, not an upper bound -- the remaining bytes can hold more
// common bits than that, so a call that returns 0 does not prove the full
// count is below cutoff.
func BitcountCut256(f1, f2 []byte, cutoff uint32, slack int32) uint32 {
	var result uint32

	result += popcountRange(f1, f2, 0, 32)
	if cutoff > 0 && int32(8*result)+slack < int32(cutoff) {
		return 0
	}

	result += popcountRange(f1, f2, 32, 64)
	if cutoff > 0 && int32(4*result)+slack < int32(cutoff) {
		return 0
	}

	result += popcountRange(f1, f2, 64, 128)
	if cutoff > 0 && int32(2*result)+slack < int32(cutoff) {
		return 0
	}

	result += popcountRange(f1, f2, 128, 256)
	return result
}
