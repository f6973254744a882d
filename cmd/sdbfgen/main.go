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

// Command sdbfgen builds similarity digests for one or more files and
// either prints a summary per file or, with -compare, scores every pair
// in the batch against a threshold.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	humanize "github.com/dustin/go-humanize"

	sdbf "github.com/malwaredb/sdbf-go"
	"github.com/malwaredb/sdbf-go/internal/chunkfeed"
	ioutilx "github.com/malwaredb/sdbf-go/internal/ioutil"
	"github.com/malwaredb/sdbf-go/pkg/corpus"
)

type stdoutConsumer struct{}

func (stdoutConsumer) Push(matches []chunkfeed.Match) {
	for _, m := range matches {
		fmt.Printf("%s|%s|%.0f\n", m.A, m.B, m.Score*100)
	}
}

func main() {
	block := flag.Bool("block", false, "use block (dd) mode instead of stream mode")
	chunkSize := flag.Int("chunk-size", sdbf.DefaultChunkSize, "stream mode chunk size")
	blockSize := flag.Int("block-size", sdbf.DefaultBlockSize, "block mode block size")
	compare := flag.Bool("compare", false, "compare every pair in the batch instead of printing digests")
	threshold := flag.Float64("threshold", 0.1, "minimum score (compare mode only)")
	flag.Parse()

	gen, err := sdbf.NewGenerator(&sdbf.Config{Metrics: true})
	if err != nil {
		log.Fatalf("sdbfgen: %v", err)
	}

	var batch *corpus.Corpus
	if *compare {
		batch = corpus.New(float32(*threshold))
	}

	for _, name := range flag.Args() {
		d, err := digestFile(gen, name, *block, *chunkSize, *blockSize)
		if err != nil {
			log.Printf("sdbfgen: %s: %v", name, err)
			continue
		}

		if batch != nil {
			batch.Add(d)
			continue
		}

		d.ComputeHamming()
		fmt.Printf("%s: %d filter(s), %s\n", d.Name, d.BFCount, humanize.Bytes(uint64(len(d.Buffer))))
	}

	if batch != nil {
		if err := batch.Scan(stdoutConsumer{}); err != nil {
			log.Fatalf("sdbfgen: scan: %v", err)
		}
	}

	if m := gen.Metrics(); m != nil {
		fmt.Fprint(os.Stderr, m.String())
	}
}

func digestFile(gen *sdbf.Generator, name string, block bool, chunkSize, blockSize int) (*sdbf.Digest, error) {
	mapped, err := ioutilx.OpenMappedFile(name)
	if err != nil {
		return nil, err
	}
	defer mapped.Close()

	if block {
		return gen.DigestBlock(name, mapped.Data, blockSize)
	}
	return gen.DigestStream(name, mapped.Data, chunkSize)
}
