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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchEstimateSymmetric(t *testing.T) {
	c := NewEstimateCache()
	a := c.MatchEstimate(2048, 5, 40, 90, 12)
	b := c.MatchEstimate(2048, 5, 90, 40, 12)
	require.Equal(t, a, b)
}

func TestMatchEstimateMonotoneInCommon(t *testing.T) {
	c := NewEstimateCache()
	var prev uint32
	for _, common := range []uint32{0, 5, 10, 20, 40} {
		got := c.MatchEstimate(2048, 5, 80, 80, common)
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

// common exceeding s1+s2 is the routine case for two busy, similar filters
// and must still push the estimate up rather than wrapping the exponent
// into a huge unsigned magnitude that collapses the result toward 0.
func TestMatchEstimateMonotoneInCommonPastElementSum(t *testing.T) {
	c := NewEstimateCache()
	below := c.MatchEstimate(2048, 5, 192, 192, 40)
	past := c.MatchEstimate(2048, 5, 192, 192, 900)
	require.Greater(t, past, below)
}

func TestMatchEstimateCachesZeroCommon(t *testing.T) {
	c := NewEstimateCache()
	a := c.MatchEstimate(2048, 5, 12, 34, 0)
	b := c.MatchEstimate(2048, 5, 12, 34, 0)
	require.Equal(t, a, b)
}

func TestMatchEstimateConcurrentAccessIsSafe(t *testing.T) {
	c := NewEstimateCache()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.MatchEstimate(2048, 5, uint32(n%192), uint32((n*7)%192), 0)
		}(i)
	}
	wg.Wait()
}
