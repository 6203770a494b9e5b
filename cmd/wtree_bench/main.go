// Command wtree_bench builds a wavelet tree over a FASTA sequence and
// times access and rank, the way a thin gt_wtree_bench-style driver
// would (spec §6).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/wavelet"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: wtree_bench file.fasta\n  -h  show this message\n")
}

var symOf = map[byte]byte{'A': 0, 'C': 1, 'G': 2, 'T': 3, 'N': 4}

// readFasta loads the first record of a FASTA file into a symbol slice
// over {A,C,G,T,N}, folding lowercase soft-masking to uppercase first.
func readFasta(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	seenHeader := false
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			if seenHeader {
				break
			}
			seenHeader = true
			continue
		}
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			sym, ok := symOf[c]
			if !ok {
				sym = 4
			}
			out = append(out, sym)
		}
	}
	return out, sc.Err()
}

func main() {
	core.Prog = "wtree_bench"
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "-help" || os.Args[1] == "--help" {
		usage()
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	syms, err := readFasta(os.Args[1])
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
	if len(syms) == 0 {
		core.Errorf("no sequence data found in %s", os.Args[1])
		os.Exit(1)
	}

	buildStart := time.Now()
	tree, err := wavelet.Build(syms, 5)
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
	buildElapsed := time.Since(buildStart)

	queryStart := time.Now()
	const queries = 100000
	for i := 0; i < queries; i++ {
		idx := i % tree.Len()
		if _, err := tree.Access(idx); err != nil {
			core.Errorf("%v", err)
			os.Exit(1)
		}
		if _, err := tree.Rank(idx, syms[idx]); err != nil {
			core.Errorf("%v", err)
			os.Exit(1)
		}
	}
	queryElapsed := time.Since(queryStart)

	fmt.Printf("%s: built wavelet tree over %d symbols in %s\n", core.Prog, tree.Len(), buildElapsed)
	fmt.Printf("%s: %d access+rank queries in %s\n", core.Prog, queries, queryElapsed)
}
