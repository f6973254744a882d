/*
 * Copyright 2021 Dgraph Labs, Inc. and Contributors
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

import (
	"fmt"
	"strings"
	"sync/atomic"
)

type metricType int

const (
	// chunksProcessed counts each chunk (stream mode) or block (block
	// mode) run through the rank/score/populate pipeline.
	chunksProcessed metricType = iota
	// featuresAdmitted counts offsets whose score cleared the admission
	// threshold and were handed to the SHA-1 populator.
	featuresAdmitted
	// elementsInserted counts features that set at least one new bit
	// (i.e. weren't fully redundant against the current filter).
	elementsInserted
	// filtersRolled counts sequential filter rollovers (stream mode
	// only; block mode pre-allocates one filter per block).
	filtersRolled
	// tailFiltersTrimmed counts how many sparsely-populated tail filters
	// were dropped by the trim rule.
	tailFiltersTrimmed
	// this must stay last.
	doNotUse
)

func (t metricType) String() string {
	switch t {
	case chunksProcessed:
		return "chunks-processed"
	case featuresAdmitted:
		return "features-admitted"
	case elementsInserted:
		return "elements-inserted"
	case filtersRolled:
		return "filters-rolled"
	case tailFiltersTrimmed:
		return "tail-filters-trimmed"
	default:
		return "unknown"
	}
}

// Metrics is a set of atomic counters describing one or more digest runs
// made by a Generator. All fields are safe for concurrent use.
type Metrics struct {
	all [doNotUse]*uint64
}

func newMetrics() *Metrics {
	m := &Metrics{}
	for i := range m.all {
		m.all[i] = new(uint64)
	}
	return m
}

func (m *Metrics) add(t metricType, delta uint64) {
	if m == nil {
		return
	}
	atomic.AddUint64(m.all[t], delta)
}

// Get returns the current value of the named counter.
func (m *Metrics) Get(t metricType) uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(m.all[t])
}

// String renders every counter, one per line.
func (m *Metrics) String() string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	for t := metricType(0); t < doNotUse; t++ {
		fmt.Fprintf(&b, "%s: %d\n", t, m.Get(t))
	}
	return b.String()
}
