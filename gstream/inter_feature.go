package gstream

import (
	"sort"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// NewInterFeatureStream is the *inter-feature* visitor-driven transform
// (spec §4.3): for every parent carrying two or more children of type
// ofType, synthesizes a new child of type betweenType spanning each gap
// between consecutive same-typed siblings (the generalization add-
// introns specializes to ofType="exon", betweenType="intron"). Per
// spec §4.3, the visitor "builds a FIFO... and drains it before pulling
// again from upstream" — the triggering node is pushed first so it is
// still delivered in its original stream position.
func NewInterFeatureStream(upstream Stream, ofType, betweenType string, debugChecks bool) Stream {
	queue := core.NewQueue[gnode.Node](8)
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		interFeature(f, ofType, betweenType)
		queue.Push(f)
		return nil
	}
	s := newVisitorStream(upstream, v, debugChecks, queue, nil)
	// visitorStream.fetch serves its queue before pulling upstream
	// again, so pushing the feature itself above delivers it in its
	// original stream position with no further wiring.
	return s
}

func interFeature(f *gnode.Feature, ofType, betweenType string) {
	var siblings []*gnode.Feature
	for _, c := range f.Children() {
		interFeature(c, ofType, betweenType)
		if c.Type == ofType {
			siblings = append(siblings, c)
		}
	}
	if len(siblings) < 2 {
		return
	}
	sort.Slice(siblings, func(i, j int) bool { return siblings[i].Range().Start < siblings[j].Range().Start })
	seqid, _ := f.Seqid()
	for i := 0; i+1 < len(siblings); i++ {
		start := siblings[i].Range().End + 1
		end := siblings[i+1].Range().Start - 1
		if start > end {
			continue
		}
		between := gnode.NewFeature(seqid, gnode.Range{Start: start, End: end}, betweenType)
		between.StrandV = f.StrandV
		between.Filename, between.LineNumber = f.Filename, f.LineNumber
		f.AddChild(between)
	}
}
