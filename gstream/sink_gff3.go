package gstream

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// GFF3WriterOptions configures WriteGFF3 (spec §4.3, §6): "honours
// inline-FASTA width and optional 'retain original IDs' (which requires
// bookkeeping to detect collisions)".
type GFF3WriterOptions struct {
	RetainIDs bool
	FastaWidth int // default 60 if zero
}

// WriteGFF3 is the *GFF3 writer* sink (spec §4.3): formats every node
// drained from s to w, inserting "###" separators between independent
// top-level feature groups (spec §6). It owns every node it reads and
// releases it after formatting.
func WriteGFF3(w io.Writer, s Stream, opts GFF3WriterOptions) error {
	if opts.FastaWidth == 0 {
		opts.FastaWidth = 60
	}
	bw := bufio.NewWriter(w)
	seen := core.NewStrMap[bool]()
	idSeq := 0
	nextID := func() string {
		idSeq++
		return "id" + strconv.Itoa(idSeq)
	}

	groupOpen := false
	fmt.Fprintln(bw, "##gff-version 3")

	for {
		n, err := s.Next()
		if err != nil {
			bw.Flush()
			return err
		}
		if n == nil {
			break
		}

		switch v := n.(type) {
		case *gnode.Region:
			if groupOpen {
				fmt.Fprintln(bw, "###")
				groupOpen = false
			}
			seqid, _ := v.Seqid()
			rng := v.Range()
			fmt.Fprintf(bw, "##sequence-region %s %d %d\n", seqid, rng.Start, rng.End)
		case *gnode.Meta:
			if v.Directive == "" {
				fmt.Fprintf(bw, "##%s\n", v.Payload)
			} else if v.Payload == "" {
				fmt.Fprintf(bw, "##%s\n", v.Directive)
			} else {
				fmt.Fprintf(bw, "##%s %s\n", v.Directive, v.Payload)
			}
		case *gnode.Comment:
			fmt.Fprintln(bw, v.Text)
		case *gnode.Feature:
			if groupOpen {
				fmt.Fprintln(bw, "###")
			}
			writeFeatureTree(bw, v, opts, seen, nextID)
			groupOpen = true
		case *gnode.Sequence:
			if groupOpen {
				fmt.Fprintln(bw, "###")
				groupOpen = false
			}
			writeSequenceNode(bw, v, opts.FastaWidth)
		}

		n.Release()
	}

	if groupOpen {
		fmt.Fprintln(bw, "###")
	}
	return bw.Flush()
}

// writeGFF3Flat is WriteGFF3's per-node formatting loop without the
// tree recursion on Feature children, used by the numeric- and
// line-sorted sinks (sink_gff3_sorted.go) which flatten trees
// themselves before sorting.
func writeGFF3Flat(w io.Writer, s Stream, opts GFF3WriterOptions) error {
	if opts.FastaWidth == 0 {
		opts.FastaWidth = 60
	}
	bw := bufio.NewWriter(w)
	seen := core.NewStrMap[bool]()
	idSeq := 0
	nextID := func() string {
		idSeq++
		return "id" + strconv.Itoa(idSeq)
	}

	fmt.Fprintln(bw, "##gff-version 3")
	for {
		n, err := s.Next()
		if err != nil {
			bw.Flush()
			return err
		}
		if n == nil {
			break
		}
		switch v := n.(type) {
		case *gnode.Region:
			seqid, _ := v.Seqid()
			rng := v.Range()
			fmt.Fprintf(bw, "##sequence-region %s %d %d\n", seqid, rng.Start, rng.End)
		case *gnode.Meta:
			fmt.Fprintf(bw, "##%s %s\n", v.Directive, v.Payload)
		case *gnode.Comment:
			fmt.Fprintln(bw, v.Text)
		case *gnode.Feature:
			writeFeatureLine(bw, v, opts, seen, nextID)
		case *gnode.Sequence:
			writeSequenceNode(bw, v, opts.FastaWidth)
		}
		n.Release()
	}
	return bw.Flush()
}

func writeFeatureTree(bw *bufio.Writer, f *gnode.Feature, opts GFF3WriterOptions, seen *core.StrMap[bool], nextID func() string) {
	writeFeatureLine(bw, f, opts, seen, nextID)
	for _, c := range f.Children() {
		writeFeatureTree(bw, c, opts, seen, nextID)
	}
}

func writeFeatureLine(bw *bufio.Writer, f *gnode.Feature, opts GFF3WriterOptions, seen *core.StrMap[bool], nextID func() string) {
	seqid, _ := f.Seqid()
	rng := f.Range()
	score := "."
	if f.Score != nil {
		score = strconv.FormatFloat(*f.Score, 'g', -1, 64)
	}
	strand := "."
	if f.StrandV != 0 {
		strand = f.StrandV.String()
	}
	phase := "."
	if f.PhaseV != gnode.NoPhase {
		phase = strconv.Itoa(int(f.PhaseV))
	}

	attrs := f.Attrs
	if id, ok := attrs.ID(); ok {
		if !opts.RetainIDs {
			attrs.SetID(nextID())
		} else if _, collided := seen.Get(id); collided {
			attrs.SetID(nextID())
		} else {
			seen.Set(id, true)
		}
	}

	source := "."
	if v, ok := attrs.Get("source"); ok {
		source = v.Scalar()
	}

	fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
		seqid, source, f.Type, rng.Start, rng.End, score, strand, phase, formatAttrs(attrs))
}

func formatAttrs(a *gnode.Attributes) string {
	var parts []string
	for _, k := range a.Keys() {
		if k == "source" || strings.HasPrefix(k, "__") {
			continue
		}
		v, _ := a.Get(k)
		if v.IsList() {
			parts = append(parts, k+"="+strings.Join(v.List(), ","))
		} else {
			parts = append(parts, k+"="+v.Scalar())
		}
	}
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, ";")
}

func writeSequenceNode(bw *bufio.Writer, s *gnode.Sequence, width int) {
	header := s.Description
	seqid, _ := s.Seqid()
	if header == "" {
		fmt.Fprintf(bw, ">%s\n", seqid)
	} else {
		fmt.Fprintf(bw, ">%s %s\n", seqid, header)
	}
	bases := s.Bases
	for i := 0; i < len(bases); i += width {
		end := i + width
		if end > len(bases) {
			end = len(bases)
		}
		fmt.Fprintln(bw, bases[i:end])
	}
}
