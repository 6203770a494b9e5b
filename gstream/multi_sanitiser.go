package gstream

import "github.com/ncbi-tools/genomeflow/gnode"

// NewMultiSanitiserStream is the *multi-sanitiser* transform (spec
// §4.3, §3): groups feature nodes that share the same ID= value (a
// biological feature split across multiple GFF3 lines, e.g. a
// multi-exon CDS) and marks every member with a back-reference to one
// shared representative — the first member seen — enforcing spec §3's
// invariant "at most one (multi-group-id) -> representative mapping
// per group".
func NewMultiSanitiserStream(upstream Stream, debugChecks bool) Stream {
	reps := map[string]*gnode.Feature{}
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		id, ok := f.Attrs.ID()
		if !ok {
			return nil
		}
		if rep, seen := reps[id]; seen {
			f.MarkMulti(id, rep)
		} else {
			reps[id] = f
			f.MarkMulti(id, f)
		}
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}
