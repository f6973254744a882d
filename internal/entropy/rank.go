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

package entropy

// GenerateRanks fills ranks[0:chunkSize] with the entropy rank of the
// WindowSize-byte window starting at each offset in buffer. Offsets in
// [chunkSize-WindowSize, chunkSize) are left at zero -- there aren't enough
// trailing bytes left for a full window.
//
// If carryover is non-zero, the first carryover ranks are taken from the
// tail of a previous call (a logical left-rotation of the existing ranks
// slice); the rest are zeroed before being recomputed.
func GenerateRanks(buffer []byte, chunkSize int, ranks []uint16, carryover int) {
	var entropy uint64
	var ascii Ascii

	if carryover > 0 {
		rotateLeft(ranks, carryover)
	}
	for i := carryover; i < len(ranks); i++ {
		ranks[i] = 0
	}

	for offset := 0; offset < chunkSize-WindowSize; offset++ {
		if offset%BlockSize == 0 {
			entropy = Init(buffer[offset:], &ascii)
		} else {
			entropy = Inc(entropy, buffer[offset-1:], &ascii)
		}
		ranks[offset] = RankTable[entropy>>Power]
	}
}

// rotateLeft rotates s left by k positions in place (k must be <= len(s)).
func rotateLeft(s []uint16, k int) {
	if k <= 0 || k >= len(s) {
		return
	}
	head := append([]uint16(nil), s[:k]...)
	copy(s, s[k:])
	copy(s[len(s)-k:], head)
}
