// Command gff3validator drains a GFF3 composite pipeline in strict
// mode, reporting the first structural or type error it hits.
package main

import (
	"fmt"
	"os"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/gstream"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: gff3validator [options] file...

  -notypecheck   skip Sequence-Ontology type validation
  -h             show this message
`)
}

func main() {
	core.Prog = "gff3validator"
	var files []string
	typeCheck := true

	args := os.Args[1:]
	for _, a := range args {
		switch a {
		case "-h", "-help", "--help":
			usage()
			os.Exit(0)
		case "-notypecheck":
			typeCheck = false
		default:
			files = append(files, a)
		}
	}
	if len(files) == 0 {
		core.Errorf("no input files given")
		os.Exit(1)
	}

	var tc gnode.TypeChecker = gnode.NullTypeChecker{}
	if typeCheck {
		tc = gnode.NewSOTypeChecker()
	}

	s, err := gstream.NewGFF3Composite(gstream.GFF3CompositeOptions{
		Files:         files,
		Strict:        true,
		FixBoundaries: true,
		TypeChecker:   tc,
		DebugChecks:   true,
	})
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := gstream.Pull(s); err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}

	fmt.Printf("%s: input is valid GFF3\n", core.Prog)
}
