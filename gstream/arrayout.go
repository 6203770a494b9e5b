package gstream

import "github.com/ncbi-tools/genomeflow/gnode"

// arrayOutStream is the *Array-out* transform (spec §4.3): "Passes
// through, optionally retaining a reference to every node (or only
// every feature node) in a caller-supplied collection."
type arrayOutStream struct {
	*lookAhead
	upstream    Stream
	sink        *[]gnode.Node
	featuresOnly bool
}

// NewArrayOutStream wraps upstream, appending every node it yields (or,
// if featuresOnly is set, only Feature nodes) to *sink. The appended
// reference is an owning Ref(); callers must Release what they collect.
func NewArrayOutStream(upstream Stream, sink *[]gnode.Node, featuresOnly bool, debugChecks bool) Stream {
	s := &arrayOutStream{upstream: upstream, sink: sink, featuresOnly: featuresOnly}
	s.lookAhead = newLookAhead(s.fetch, upstream.IsSorted(), debugChecks, upstream.Close)
	return s
}

func (s *arrayOutStream) fetch() (gnode.Node, error) {
	n, err := s.upstream.Next()
	if err != nil || n == nil {
		return n, err
	}
	if !s.featuresOnly {
		*s.sink = append(*s.sink, n.Ref())
	} else if _, ok := gnode.TryAs[*gnode.Feature](n); ok {
		*s.sink = append(*s.sink, n.Ref())
	}
	return n, nil
}
