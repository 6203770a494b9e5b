// Command inlineseq_split separates a GFF3 file's inline "##FASTA"
// section from its annotation records, the way genometools' own
// sequence-splitting tools keep coordinates and bases in separate
// files for downstream tools that expect one or the other.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/gstream"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: inlineseq_split -fasta out.fasta [-gff3 out.gff3] file...

  -gff3 file     annotation-only output (default stdout)
  -fasta file    inline-sequence output (required)
  -h             show this message
`)
}

func writeFasta(w *bufio.Writer, seqid, bases string, width int) {
	fmt.Fprintf(w, ">%s\n", seqid)
	for i := 0; i < len(bases); i += width {
		end := i + width
		if end > len(bases) {
			end = len(bases)
		}
		fmt.Fprintln(w, bases[i:end])
	}
}

func main() {
	core.Prog = "inlineseq_split"
	var files []string
	gffPath, fastaPath := "", ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "-help", "--help":
			usage()
			os.Exit(0)
		case "-gff3":
			i++
			gffPath = args[i]
		case "-fasta":
			i++
			fastaPath = args[i]
		default:
			files = append(files, args[i])
		}
	}
	if fastaPath == "" {
		core.Errorf("-fasta is required")
		os.Exit(1)
	}

	s, err := gstream.NewGFF3PlainReader(files, gstream.GFF3PlainOptions{DebugChecks: true})
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}

	fastaFile, err := os.Create(fastaPath)
	if err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
	defer fastaFile.Close()
	fastaW := bufio.NewWriter(fastaFile)

	split := gstream.NewSequenceSplitStream(s, func(seq *gnode.Sequence) {
		writeFasta(fastaW, seq.IDString(), seq.Bases, 70)
	}, true)
	defer split.Close()

	gffOut := os.Stdout
	if gffPath != "" {
		f, err := os.Create(gffPath)
		if err != nil {
			core.Errorf("%v", err)
			os.Exit(1)
		}
		defer f.Close()
		gffOut = f
	}

	if err := gstream.WriteGFF3(gffOut, split, gstream.GFF3WriterOptions{RetainIDs: true}); err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
	if err := fastaW.Flush(); err != nil {
		core.Errorf("%v", err)
		os.Exit(1)
	}
}
