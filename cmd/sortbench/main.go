// Command sortbench times the Sort stream over a GFF3 input and
// reports the share of total system RAM in use afterwards, the way
// a thin gt_sortbench-style driver would (spec §6).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gstream"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sortbench file...\n  -h  show this message\n")
}

func main() {
	core.Prog = "sortbench"
	var files []string
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "-help" || a == "--help" {
			usage()
			os.Exit(0)
		}
		files = append(files, a)
	}
	if len(files) == 0 {
		core.Errorf("no input files given")
		os.Exit(1)
	}

	reader, err := gstream.NewGFF3PlainReader(files, gstream.GFF3PlainOptions{})
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}

	sorted := gstream.NewSortStream(reader, false)
	defer sorted.Close()

	start := time.Now()
	count := 0
	for {
		n, err := sorted.Next()
		if err != nil {
			core.Errorf("%v", err)
			os.Exit(1)
		}
		if n == nil {
			break
		}
		count++
		n.Release()
	}
	elapsed := time.Since(start)

	total, free := gstream.PeakMemoryBudget()
	used := total - free
	var ratio float64
	if total > 0 {
		ratio = float64(used) / float64(total)
	}

	fmt.Printf("%s: %d nodes sorted in %s (RAM in use: %.1f%% of %d bytes)\n",
		core.Prog, count, elapsed, ratio*100, total)
}
