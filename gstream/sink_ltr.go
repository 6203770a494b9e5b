package gstream

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/internal/encseq"
)

// ltrPrinter formats the numeric columns of the tabular sinks with
// locale-stable, thousands-separator-free output, grounded on
// eutils/align.go's use of golang.org/x/text/message (SPEC_FULL.md §2
// domain-stack table) — without it, message.Printer would insert
// thousands separators on some locales, corrupting the fixed column
// format spec §6 requires.
var ltrPrinter = message.NewPrinter(language.AmericanEnglish)

// LTRElement is the sub-tree WriteLTRHarvestTable and
// WriteLTRDigestTable walk per spec §4.3: "These sinks walk a sub-tree
// of every feature received via a local visitor." It is built from a
// "repeat_region" top-level feature carrying the children genometools'
// LTR pipeline emits; callers that don't run the (out-of-scope, spec
// §1) LTR detection itself construct this directly for testing or for
// bridging an external caller's own detector.
type LTRElement struct {
	SeqNr                int
	Seqid                string
	RetStart, RetEnd      int
	LeftLTRStart, LeftLTREnd int
	RightLTRStart, RightLTREnd int
	SimilarityPct         float64

	HasTSD    bool
	TSDLeftStart, TSDLeftEnd   int
	TSDRightStart, TSDRightEnd int
	MotifLeft, MotifRight      string

	PPTStart, PPTEnd int
	PPTStrand        gnode.Strand
	PPTMotif         string
	PPTOffset        int

	PBSStart, PBSEnd int
	PBSStrand        gnode.Strand
	PBSTRNA          string
	PBSMotif         string
	PBSOffsetLeft    int
	PBSOffsetRight   int
	PBSEditDistance  int

	ProteinDomains []string
}

func length(start, end int) int { return end - start + 1 }

// WriteLTRHarvestTable is the *Tabular LTRharvest output* sink (spec
// §6): fixed column order "s(ret) e(ret) l(ret) s(lLTR) e(lLTR) l(lLTR)
// s(rLTR) e(rLTR) l(rLTR) sim(%) seq-nr", with long mode adding TSD and
// motif columns. Header is emitted once.
func WriteLTRHarvestTable(w io.Writer, elems []LTRElement, long bool) error {
	header := "# s(ret) e(ret) l(ret) s(lLTR) e(lLTR) l(lLTR) s(rLTR) e(rLTR) l(rLTR) sim(%) seq-nr"
	if long {
		header += " TSD-s TSD-e TSD-l motif"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, e := range elems {
		if _, err := ltrPrinter.Fprintf(w, "%d %d %d %d %d %d %d %d %d %.2f %d",
			e.RetStart, e.RetEnd, length(e.RetStart, e.RetEnd),
			e.LeftLTRStart, e.LeftLTREnd, length(e.LeftLTRStart, e.LeftLTREnd),
			e.RightLTRStart, e.RightLTREnd, length(e.RightLTRStart, e.RightLTREnd),
			e.SimilarityPct, e.SeqNr); err != nil {
			return err
		}
		if long {
			if e.HasTSD {
				fmt.Fprintf(w, " %d %d %d %s/%s", e.TSDLeftStart, e.TSDLeftEnd, length(e.TSDLeftStart, e.TSDLeftEnd), e.MotifLeft, e.MotifRight)
			} else {
				fmt.Fprintf(w, " . . . .")
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteLTRDigestTable is the *Tabular LTRdigest output* sink (spec
// §6): "Long row including element coordinates, LTR and TSD
// coordinates/sequences, PPT coordinates/motif/strand/offset, PBS
// coordinates/strand/tRNA/motif/offsets/edit-distance, and a
// slash-separated ordered list of protein-domain names. Empty values
// are emitted as empty tab cells."
func WriteLTRDigestTable(w io.Writer, elems []LTRElement) error {
	cols := []string{
		"seq-nr", "element-start", "element-end", "element-length",
		"lLTR-start", "lLTR-end", "rLTR-start", "rLTR-end",
		"TSD-start", "TSD-end",
		"PPT-start", "PPT-end", "PPT-strand", "PPT-motif", "PPT-offset",
		"PBS-start", "PBS-end", "PBS-strand", "PBS-tRNA", "PBS-motif", "PBS-offset-left", "PBS-offset-right", "PBS-edit-distance",
		"protein-domains",
	}
	if _, err := fmt.Fprintln(w, strings.Join(cols, "\t")); err != nil {
		return err
	}
	for _, e := range elems {
		row := []string{
			itoaOrEmpty(e.SeqNr, true),
			itoaOrEmpty(e.RetStart, true), itoaOrEmpty(e.RetEnd, true), itoaOrEmpty(length(e.RetStart, e.RetEnd), true),
			itoaOrEmpty(e.LeftLTRStart, true), itoaOrEmpty(e.LeftLTREnd, true),
			itoaOrEmpty(e.RightLTRStart, true), itoaOrEmpty(e.RightLTREnd, true),
			itoaOrEmpty(e.TSDLeftStart, e.HasTSD), itoaOrEmpty(e.TSDLeftEnd, e.HasTSD),
			itoaOrEmpty(e.PPTStart, e.PPTStart != 0), itoaOrEmpty(e.PPTEnd, e.PPTEnd != 0), strandOrEmpty(e.PPTStrand), e.PPTMotif, itoaOrEmpty(e.PPTOffset, e.PPTStart != 0),
			itoaOrEmpty(e.PBSStart, e.PBSStart != 0), itoaOrEmpty(e.PBSEnd, e.PBSStart != 0), strandOrEmpty(e.PBSStrand), e.PBSTRNA, e.PBSMotif,
			itoaOrEmpty(e.PBSOffsetLeft, e.PBSStart != 0), itoaOrEmpty(e.PBSOffsetRight, e.PBSStart != 0), itoaOrEmpty(e.PBSEditDistance, e.PBSStart != 0),
			strings.Join(e.ProteinDomains, "/"),
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func itoaOrEmpty(n int, present bool) string {
	if !present {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func strandOrEmpty(s gnode.Strand) string {
	if s == 0 {
		return ""
	}
	return s.String()
}

// WriteElementFasta writes one side-channel FASTA record per element
// (spec §6 "FASTA side files"): header "seqid_start_end" with spaces in
// seqid replaced by underscores and truncated to maxHeaderLen, sequence
// wrapped to wrapWidth columns (default 60).
func WriteElementFasta(w io.Writer, seqid string, start, end int, seqs encseq.Provider, maxHeaderLen, wrapWidth int) error {
	if wrapWidth == 0 {
		wrapWidth = 60
	}
	header := strings.ReplaceAll(seqid, " ", "_") + fmt.Sprintf("_%d_%d", start, end)
	if maxHeaderLen > 0 && len(header) > maxHeaderLen {
		header = header[:maxHeaderLen]
	}
	bases, err := seqs.Fetch(seqid, start-1, end)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, ">%s\n", header); err != nil {
		return err
	}
	for i := 0; i < len(bases); i += wrapWidth {
		e := i + wrapWidth
		if e > len(bases) {
			e = len(bases)
		}
		if _, err := fmt.Fprintln(w, string(bases[i:e])); err != nil {
			return err
		}
	}
	return nil
}
