package gstream

import (
	"sort"

	"github.com/ncbi-tools/genomeflow/gnode"
)

// NewAddIntronsStream is the *add-introns* transform (spec §8 scenario
//3): for every mRNA-like parent with two or more exon children, it
// synthesizes intron children spanning each gap between consecutive
// exons, carrying the parent's seqid and strand.
func NewAddIntronsStream(upstream Stream, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		addIntrons(f)
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

func addIntrons(f *gnode.Feature) {
	var exons []*gnode.Feature
	for _, c := range f.Children() {
		addIntrons(c)
		if c.Type == "exon" {
			exons = append(exons, c)
		}
	}
	if len(exons) < 2 {
		return
	}
	sort.Slice(exons, func(i, j int) bool { return exons[i].Range().Start < exons[j].Range().Start })

	seqid, _ := f.Seqid()
	for i := 0; i+1 < len(exons); i++ {
		start := exons[i].Range().End + 1
		end := exons[i+1].Range().Start - 1
		if start > end {
			continue
		}
		intron := gnode.NewFeature(seqid, gnode.Range{Start: start, End: end}, "intron")
		intron.StrandV = f.StrandV
		intron.Filename, intron.LineNumber = f.Filename, f.LineNumber
		f.AddChild(intron)
	}
}
