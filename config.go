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

// Package sdbf implements a similarity digest (SDBF) generator: it
// summarizes a byte stream as a sequence of fixed-size Bloom filters
// populated from entropy-ranked, popularity-scored features, and it can
// compare two such digests to estimate how much byte-level content they
// share.
package sdbf

import (
	"github.com/malwaredb/sdbf-go/internal/bf"
	"github.com/malwaredb/sdbf-go/internal/entropy"
)

// Default system parameters, fixed by the format (see spec.md §6).
const (
	DefaultChunkSize   = 16384
	DefaultBlockSize   = entropy.BlockSize
	DefaultThreshold   = 16
	DefaultMaxElem     = bf.MaxElem
	DefaultMinFileSize = 512
)

// Config holds the tunable knobs of the digest generator. All of them have
// a fixed system default; the zero Config resolves to DefaultConfig()
// through NewGenerator.
type Config struct {
	// BlockSize is the block length DigestBlock uses when its blockSize
	// argument is zero. It does not set the entropy-resync stride: the
	// rolling entropy window is always recomputed from scratch every
	// entropy.BlockSize (4096) bytes, whatever this field holds.
	BlockSize int

	// Threshold is the minimum popularity score an offset must exceed to
	// be admitted as a Bloom-filter feature.
	Threshold uint16

	// MaxElem caps the number of distinct-bit insertions a single filter
	// may carry before the stream generator rolls to a new one.
	MaxElem uint32

	// MinFileSize is the minimum input length (stream mode) or minimum
	// tail-block length (block mode) that yields a digest/filter at all.
	MinFileSize int

	// SampleSize, when non-zero, reserves a future sampling strategy;
	// the current generator always processes the full input.
	SampleSize int

	// Metrics enables atomic counters on the returned Generator.
	Metrics bool
}

// DefaultConfig returns the fixed system parameters from spec.md §6.
func DefaultConfig() *Config {
	return &Config{
		BlockSize:   DefaultBlockSize,
		Threshold:   DefaultThreshold,
		MaxElem:     DefaultMaxElem,
		MinFileSize: DefaultMinFileSize,
		SampleSize:  0,
	}
}

func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	if out.BlockSize == 0 {
		out.BlockSize = DefaultBlockSize
	}
	if out.Threshold == 0 {
		out.Threshold = DefaultThreshold
	}
	if out.MaxElem == 0 {
		out.MaxElem = DefaultMaxElem
	}
	if out.MinFileSize == 0 {
		out.MinFileSize = DefaultMinFileSize
	}
	return &out
}

// Generator produces digests according to a fixed Config. A Generator is
// safe to reuse across calls to DigestStream/DigestBlock but, like the
// reference implementation, performs no intra-digest parallelism -- one
// Generator builds one digest at a time on the calling goroutine.
type Generator struct {
	cfg     *Config
	metrics *Metrics
}

// NewGenerator validates cfg and returns a ready-to-use Generator. A nil
// cfg is equivalent to DefaultConfig().
func NewGenerator(cfg *Config) (*Generator, error) {
	cfg = cfg.withDefaults()
	if cfg.BlockSize <= entropy.WindowSize {
		return nil, ErrChunkTooSmall
	}

	g := &Generator{cfg: cfg}
	if cfg.Metrics {
		g.metrics = newMetrics()
	}
	return g, nil
}

// Metrics returns the generator's metrics, or nil if Config.Metrics was
// false.
func (g *Generator) Metrics() *Metrics {
	return g.metrics
}
