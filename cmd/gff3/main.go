// Command gff3 is the pipeline CLI: reader -> transforms -> writer,
// wired the way edirect/cmd/edict.go hand-rolls its os.Args switch
// rather than reaching for a flag-parsing library.
package main

import (
	"fmt"
	"os"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/gstream"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: gff3 [options] file...

  -sort          sort output (stable, coalesces adjacent regions)
  -tidy          tolerate and repair minor structural issues
  -retainids     keep existing ID= attributes instead of reassigning
  -addintrons    synthesize intron features between exon children
  -checktypes    validate feature types against a small SO allow-list
  -o file        write output here instead of stdout
  -h             show this message
`)
}

func main() {
	core.Prog = "gff3"
	var files []string
	sortOut, tidy, retainIDs, addIntrons, checkTypes := false, false, false, false, false
	outPath := ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "-help", "--help":
			usage()
			os.Exit(0)
		case "-sort":
			sortOut = true
		case "-tidy":
			tidy = true
		case "-retainids":
			retainIDs = true
		case "-addintrons":
			addIntrons = true
		case "-checktypes":
			checkTypes = true
		case "-o":
			i++
			if i >= len(args) {
				core.Errorf("-o requires an argument")
				os.Exit(1)
			}
			outPath = args[i]
		default:
			files = append(files, args[i])
		}
	}

	var tc gnode.TypeChecker = gnode.NullTypeChecker{}
	if checkTypes {
		tc = gnode.NewSOTypeChecker()
	}

	s, err := gstream.NewGFF3Composite(gstream.GFF3CompositeOptions{
		Files:        files,
		Tidy:         tidy,
		RetainIDs:    retainIDs,
		FixBoundaries: tidy,
		TypeChecker:  tc,
		DebugChecks:  true,
	})
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
	defer s.Close()

	var stream gstream.Stream = s
	if addIntrons {
		stream = gstream.NewAddIntronsStream(stream, true)
	}
	if sortOut {
		stream = gstream.NewSortStream(stream, true)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			core.Errorf("%v", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := gstream.WriteGFF3(out, stream, gstream.GFF3WriterOptions{RetainIDs: true}); err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
}
