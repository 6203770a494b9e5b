package gstream

import (
	"github.com/ncbi-tools/genomeflow/gnode"
)

// Predicate is the "scripted predicate" hook of spec §4.3 ("scripted
// predicates with AND/OR combination"). genometools bridges this to an
// embedded Lua interpreter (script_wrapper_visitor.c, see SPEC_FULL.md
// §4); spec §1 explicitly puts "embedded scripting bridges" out of
// scope, so the hook shape is supplied without an interpreter behind
// it — callers plug in a plain Go function.
type Predicate func(*gnode.Feature) bool

// Criteria is the Filter/Select transform's full rule set (spec §4.3):
// "seqid match, source match, contain-range, overlap-range, strand,
// target strand, has-CDS, min/max gene length, min/max gene score, min
// average splice-site probability, feature index, scripted predicates
// with AND/OR combination". Zero-valued fields are "no constraint".
type Criteria struct {
	Seqid  string
	Source string

	ContainRange *gnode.Range
	OverlapRange *gnode.Range

	Strand       gnode.Strand
	TargetStrand gnode.Strand

	HasCDS bool

	MinGeneLength, MaxGeneLength int // 0 = unbounded
	MinGeneScore, MaxGeneScore   float64
	HasScoreBound                bool

	MinAvgSpliceProb float64
	HasSpliceBound   bool

	FeatureIndex    int
	HasIndexBound   bool

	// Predicates combined with OR across the slice, AND within each
	// inner slice — i.e. sum-of-products form, matching how
	// select_visitor.c composes its AND/OR criteria groups.
	Predicates [][]Predicate
}

func (c *Criteria) matches(f *gnode.Feature, index int) bool {
	if c.Seqid != "" {
		s, ok := f.Seqid()
		if !ok || s != c.Seqid {
			return false
		}
	}
	if c.Source != "" {
		v, ok := f.Attrs.Get("source")
		if !ok || v.Scalar() != c.Source {
			return false
		}
	}
	if c.ContainRange != nil && !c.ContainRange.Contains(f.Range()) {
		return false
	}
	if c.OverlapRange != nil && !c.OverlapRange.Overlaps(f.Range()) {
		return false
	}
	if c.Strand != 0 && f.StrandV != c.Strand {
		return false
	}
	if c.TargetStrand != 0 {
		target, ok := f.Attrs.Target()
		if !ok || !targetHasStrand(target, c.TargetStrand) {
			return false
		}
	}
	if c.HasCDS && !hasDescendantType(f, "CDS") {
		return false
	}
	length := f.Range().End - f.Range().Start + 1
	if c.MinGeneLength > 0 && length < c.MinGeneLength {
		return false
	}
	if c.MaxGeneLength > 0 && length > c.MaxGeneLength {
		return false
	}
	if c.HasScoreBound {
		if f.Score == nil {
			return false
		}
		if *f.Score < c.MinGeneScore || (c.MaxGeneScore > 0 && *f.Score > c.MaxGeneScore) {
			return false
		}
	}
	if c.HasSpliceBound {
		prob, ok := averageSpliceProbability(f)
		if !ok || prob < c.MinAvgSpliceProb {
			return false
		}
	}
	if c.HasIndexBound && index != c.FeatureIndex {
		return false
	}
	if len(c.Predicates) > 0 {
		anyGroupMatched := false
		for _, group := range c.Predicates {
			allTrue := true
			for _, p := range group {
				if !p(f) {
					allTrue = false
					break
				}
			}
			if allTrue {
				anyGroupMatched = true
				break
			}
		}
		if !anyGroupMatched {
			return false
		}
	}
	return true
}

func targetHasStrand(target string, want gnode.Strand) bool {
	for i := len(target) - 1; i >= 0; i-- {
		if target[i] == '+' || target[i] == '-' {
			return gnode.Strand(target[i]) == want
		}
	}
	return false
}

func hasDescendantType(f *gnode.Feature, typ string) bool {
	for _, c := range f.Children() {
		if c.Type == typ || hasDescendantType(c, typ) {
			return true
		}
	}
	return false
}

// selectStream is the *Filter / select* transform of spec §4.3: "A
// visitor with extensive criteria... rejected nodes are passed to a
// drop callback before release."
type selectStream struct {
	upstream Stream
	c        Criteria
	onDrop   func(gnode.Node)
	index    int
}

// NewSelectStream filters the Feature nodes of upstream against c;
// every other node kind passes through unfiltered. Rejected nodes are
// handed to onDrop (if non-nil) then released.
func NewSelectStream(upstream Stream, c Criteria, onDrop func(gnode.Node), debugChecks bool) Stream {
	s := &selectStream{upstream: upstream, c: c, onDrop: onDrop}
	fetch := func() (gnode.Node, error) {
		for {
			n, err := upstream.Next()
			if err != nil || n == nil {
				return n, err
			}
			f, ok := gnode.TryAs[*gnode.Feature](n)
			if !ok {
				return n, nil
			}
			idx := s.index
			s.index++
			if s.c.matches(f, idx) {
				return n, nil
			}
			if s.onDrop != nil {
				s.onDrop(n)
			}
			n.Release()
		}
	}
	la := newLookAhead(fetch, upstream.IsSorted(), debugChecks, upstream.Close)
	return la
}
