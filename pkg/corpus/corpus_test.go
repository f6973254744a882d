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

package corpus

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	sdbf "github.com/malwaredb/sdbf-go"
	"github.com/malwaredb/sdbf-go/internal/chunkfeed"
)

type collectingConsumer struct {
	mu      sync.Mutex
	matches []chunkfeed.Match
}

func (c *collectingConsumer) Push(matches []chunkfeed.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matches = append(c.matches, matches...)
}

func digestOf(t *testing.T, g *sdbf.Generator, name string, seed int64) *sdbf.Digest {
	t.Helper()
	buf := make([]byte, 100*1024)
	rand.New(rand.NewSource(seed)).Read(buf)
	d, err := g.DigestStream(name, buf, 0)
	require.NoError(t, err)
	return d
}

func TestCorpusScanFindsIdenticalContent(t *testing.T) {
	g, err := sdbf.NewGenerator(nil)
	require.NoError(t, err)

	buf := make([]byte, 100*1024)
	rand.New(rand.NewSource(55)).Read(buf)
	a, err := g.DigestStream("a", buf, 0)
	require.NoError(t, err)
	b, err := g.DigestStream("b", buf, 0)
	require.NoError(t, err)

	c := New(0.5)
	c.Add(a)
	c.Add(b)

	out := &collectingConsumer{}
	require.NoError(t, c.Scan(out))

	require.Len(t, out.matches, 1)
	require.EqualValues(t, 1, out.matches[0].Score)
}

func TestCorpusScanSkipsDissimilarDigests(t *testing.T) {
	g, err := sdbf.NewGenerator(nil)
	require.NoError(t, err)

	a := digestOf(t, g, "a", 1)
	b := digestOf(t, g, "b", 2)

	c := New(1.0) // only a perfect match would clear this
	c.Add(a)
	c.Add(b)

	out := &collectingConsumer{}
	require.NoError(t, c.Scan(out))
	require.Empty(t, out.matches)
}

func TestCorpusBucketPopulationTracksAdds(t *testing.T) {
	g, err := sdbf.NewGenerator(nil)
	require.NoError(t, err)

	c := New(0.1)
	d := digestOf(t, g, "solo", 3)
	require.EqualValues(t, 0, c.BucketPopulation(d))
	c.Add(d)
	require.GreaterOrEqual(t, c.BucketPopulation(d), uint64(1))
}
