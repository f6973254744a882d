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
	"crypto/sha1"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAllZeroDigestSetsOneBit(t *testing.T) {
	filter := make([]byte, Size)
	words := Words([20]byte{})

	inserted := Insert(filter, 0, words)
	require.EqualValues(t, 1, inserted)
	require.EqualValues(t, 0x01, filter[0])

	// Repeating the same digest sets no further bits.
	again := Insert(filter, 0, words)
	require.EqualValues(t, 0, again)
}

func TestBitcountCut256MatchesPlainBitcount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f1 := make([]byte, Size)
	f2 := make([]byte, Size)
	rng.Read(f1)
	rng.Read(f2)

	want := Bitcount(f1, f2, Size)
	got := BitcountCut256(f1, f2, 0, 0)
	require.Equal(t, want, got)
}

func TestBitcountCut256CutoffEitherExactOrZero(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	f1 := make([]byte, Size)
	f2 := make([]byte, Size)
	rng.Read(f1)
	rng.Read(f2)

	want := Bitcount(f1, f2, Size)
	for _, cutoff := range []uint32{1, 10, 50, 100, 500, 2000} {
		got := BitcountCut256(f1, f2, cutoff, 0)
		if got != 0 {
			require.Equal(t, want, got)
		} else {
			// With zero slack, for these two filters, every cutoff that
			// a checkpoint rejects is also above the full count.
			require.Less(t, want, cutoff)
		}
	}
}

func TestWordsUsesAllTwentyDigestBytes(t *testing.T) {
	digest := sha1.Sum([]byte("sdbf"))
	words := Words(digest)
	require.Len(t, words, HashCount)
}

func TestInsertRespectsClassMask(t *testing.T) {
	filter := make([]byte, Size)
	words := [HashCount]uint32{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}
	Insert(filter, 0, words)

	// Class 0 masks to 11 bits (0x7FF), so the highest addressable byte is
	// 0x7FF>>3 == 255, the last byte of a 256-byte filter.
	var touched bool
	for _, b := range filter {
		if b != 0 {
			touched = true
		}
	}
	require.True(t, touched)
}
