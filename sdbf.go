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

// Digest is a similarity digest: a sequence of fixed-size Bloom filters
// populated from entropy-ranked features of the original input.
type Digest struct {
	// Name is an opaque identifier set by the caller (e.g. the source
	// file path); the core never inspects it.
	Name string

	// BFCount is the number of BFSize-byte filters that carry data.
	BFCount uint32

	// BFSize is the filter size in bytes (m = 2048 bits). Fixed at
	// bf.Size.
	BFSize uint32

	// HashCount is k, the number of sub-hashes per inserted element.
	// Fixed at bf.HashCount.
	HashCount uint32

	// Mask is the index mask for this digest's filter class; for
	// BFSize == 256 this is bf.ClassMasks[0].
	Mask uint32

	// MaxElem caps the number of elements admitted into a single filter.
	MaxElem uint32

	// LastCount is the number of elements inserted into the last filter
	// in stream mode. Zero means "look at ElemCounts instead" in block
	// mode, or "no elements since the last rollover" in stream mode --
	// the presence of ElemCounts disambiguates the two.
	LastCount uint32

	// Buffer is the filter cluster: BFCount*BFSize bytes, one filter
	// after another.
	Buffer []byte

	// Hamming is an optional per-filter Hamming-weight cache, populated
	// by ComputeHamming.
	Hamming []uint16

	// ElemCounts holds one entry per filter in block ("dd") mode; it is
	// empty in stream mode.
	ElemCounts []uint16

	// DDBlockSize is the block size used in block mode, or 1 in stream
	// mode.
	DDBlockSize uint32
}

// NewDigest returns an empty digest ready to be populated by a Generator.
func NewDigest(name string) *Digest {
	return &Digest{
		Name:        name,
		BFCount:     1,
		BFSize:      bf.Size,
		HashCount:   bf.HashCount,
		Mask:        bf.ClassMasks[0],
		MaxElem:     bf.MaxElem,
		DDBlockSize: 1,
	}
}

// ComputeHamming (re)computes the Hamming-weight cache: one entry per
// filter, each the popcount of that filter's BFSize bytes.
func (d *Digest) ComputeHamming() {
	d.Hamming = make([]uint16, d.BFCount)
	for i := range d.Hamming {
		filter := d.filterAt(int(i))
		var weight uint16
		for j := 0; j < len(filter); j += 2 {
			v := uint16(filter[j]) | uint16(filter[j+1])<<8
			weight += uint16(bf.BitCount16[v])
		}
		d.Hamming[i] = weight
	}
}

// filterAt returns the i-th filter's bytes as a slice into Buffer.
func (d *Digest) filterAt(i int) []byte {
	start := i * int(d.BFSize)
	return d.Buffer[start : start+int(d.BFSize)]
}

// ElemCount returns the number of elements stored in filter i, handling
// both stream and block ("dd") mode.
func (d *Digest) ElemCount(i int) uint32 {
	if len(d.ElemCounts) == 0 {
		if i < int(d.BFCount)-1 {
			return d.MaxElem
		}
		return d.LastCount
	}
	return uint32(d.ElemCounts[i])
}
