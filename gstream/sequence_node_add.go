package gstream

import (
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/internal/encseq"
)

// NewSequenceNodeAddStream is the *sequence-node-add* transform (spec
// §4.3): "Scans incoming IDs, then at end-of-input synthesises one
// sequence node per unique seqid by asking an external 'region
// mapping' for the sequence and length." seqs is that external region
// mapping (internal/encseq.Provider, spec §1's "encoded-sequence file
// format" collaborator).
func NewSequenceNodeAddStream(upstream Stream, seqs encseq.Provider, debugChecks bool) Stream {
	seen := map[string]bool{}
	var order []string

	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		if s, ok := f.Seqid(); ok && !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
		return nil
	}
	v.OnRegion = func(r *gnode.Region) error {
		if s, ok := r.Seqid(); ok && !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
		return nil
	}

	onEnd := func(push func(gnode.Node)) {
		for _, seqid := range order {
			length, ok := seqs.Length(seqid)
			if !ok {
				continue
			}
			bases, err := seqs.Fetch(seqid, 0, length)
			if err != nil {
				continue
			}
			push(gnode.NewSequence(seqid, "", string(bases), gnode.Range{Start: 1, End: length}))
		}
	}

	return newVisitorStream(upstream, v, debugChecks, nil, onEnd)
}
