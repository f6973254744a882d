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

// HistogramBins is the width of a score histogram: bins 0..WindowSize plus
// one extra bin for the value 65, which GenerateScores can produce when the
// last cheap-slide step and the rescan that follows it both count the same
// window for one offset.
const HistogramBins = WindowSize + 2

// GenerateScores computes the popularity score of every offset in
// ranks[0:chunkSize]: for each of the (chunkSize-WindowSize) sliding
// WindowSize-wide windows, the offset holding the window's minimum
// positive rank has its score incremented. If histo is non-nil, it
// receives a count of how many offsets ended with each score value
// (histo must have at least HistogramBins entries).
//
// The scan below is a direct port of the reference algorithm, including
// its "cheap slide" fast path and its rescan tie-break rule (rightmost
// position wins on a tie). Both are load-bearing: perturbing either
// changes which offsets are selected as features.
//
// The cheap-slide fast path advances the scan index itself, so the windows
// it has already counted are not rescanned by later iterations; this keeps
// every offset's score within the number of windows that contain it.
func GenerateScores(ranks []uint16, chunkSize int, scores []uint16, histo []int32) {
	popWin := WindowSize
	minPos := 0
	minRank := ranks[minPos]

	for i := range scores {
		scores[i] = 0
	}

	for i := 0; i < chunkSize-popWin; i++ {
		if i > 0 && minRank > 0 {
			for i+popWin < len(ranks) && ranks[i+popWin] >= minRank && i < minPos && i < chunkSize-popWin+1 {
				if ranks[i+popWin] == minRank {
					minPos = i + popWin
				}
				scores[minPos]++
				i++
			}
		}

		minPos = i
		minRank = ranks[minPos]

		for j := i + 1; j < i+popWin; j++ {
			if ranks[j] < minRank && ranks[j] > 0 {
				minRank = ranks[j]
				minPos = j
			} else if minPos == j-1 && ranks[j] == minRank {
				minPos = j
			}
		}

		if ranks[minPos] > 0 {
			scores[minPos]++
		}
	}

	if histo != nil {
		for i := 0; i < chunkSize-popWin; i++ {
			histo[scores[i]]++
		}
	}
}
