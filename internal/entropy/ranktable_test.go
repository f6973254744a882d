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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankTableShape(t *testing.T) {
	require.Len(t, RankTable, 1001)
	// Low- and high-entropy tails are zero-ranked; only the mid-entropy
	// band of the calibration corpus produced non-zero ranks.
	require.EqualValues(t, 0, RankTable[0])
	require.EqualValues(t, 0, RankTable[1000])

	var nonZero int
	for _, r := range RankTable {
		if r > 0 {
			nonZero++
		}
		require.LessOrEqualf(t, r, uint16(1000), "rank value out of range: %d", r)
	}
	require.Greater(t, nonZero, 0)
}
