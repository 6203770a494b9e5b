package gstream

import (
	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/internal/encseq"
)

// NewSequenceNodeOutStream is the *sequence-node-out* transform (spec
// §4.3): for every feature of the given type, fetches its own subrange
// from seqs and emits a trailing Sequence node describing it — e.g. to
// materialize each gene's genomic sequence alongside the annotation,
// the way the LTRharvest/LTRdigest tabular sinks materialize their
// side-channel FASTA files (spec §6) from coordinates rather than
// carrying the bases inline.
func NewSequenceNodeOutStream(upstream Stream, featureType string, seqs encseq.Provider, debugChecks bool) Stream {
	queue := core.NewQueue[gnode.Node](4)
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		queue.Push(f)
		if f.Type != featureType {
			return nil
		}
		seqid, ok := f.Seqid()
		if !ok {
			return nil
		}
		rng := f.Range()
		bases, err := seqs.Fetch(seqid, rng.Start-1, rng.End)
		if err != nil {
			return nil
		}
		queue.Push(gnode.NewSequence(seqid, f.Type, string(bases), rng))
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, queue, nil)
}
