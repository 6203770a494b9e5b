package gstream

import (
	"strconv"

	"github.com/ncbi-tools/genomeflow/gnode"
)

// NewAddIDsStream is the *add-ids* visitor-driven transform the GFF3
// composite chain wires in first (spec §4.3's "plain-reader -> add-ids
// -> multi-sanitiser..."): every feature needs an ID= attribute before
// multi-sanitiser can group split records by it. When retainIDs is
// false every feature's ID is replaced by a fresh synthetic one (the
// composite's default, matching the writer's own default of not
// trusting incoming identifiers); when true only features missing an
// ID get one assigned, and existing IDs pass through untouched.
func NewAddIDsStream(upstream Stream, retainIDs, debugChecks bool) Stream {
	seq := 0
	next := func() string {
		seq++
		return "gf" + strconv.Itoa(seq)
	}
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		if _, ok := f.Attrs.ID(); ok && retainIDs {
			return nil
		}
		f.Attrs.SetID(next())
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}
