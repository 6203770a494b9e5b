package gstream

import "github.com/ncbi-tools/genomeflow/gnode"

// sequenceSplitStream is a transform that pulls Sequence
// nodes out of the stream entirely, handing each to onSequence before
// releasing it, while every other node kind passes through unchanged —
// the same "filter plus side-channel callback" shape as selectStream's
// onDrop, specialised to Kind rather than Criteria.
type sequenceSplitStream struct {
	*lookAhead
	upstream   Stream
	onSequence func(*gnode.Sequence)
}

// NewSequenceSplitStream separates inline ##FASTA sequence nodes from
// the rest of upstream (spec §6's "inlineseq_split" use case: emit
// annotation records and inline sequence bases to separate sinks).
func NewSequenceSplitStream(upstream Stream, onSequence func(*gnode.Sequence), debugChecks bool) Stream {
	s := &sequenceSplitStream{upstream: upstream, onSequence: onSequence}
	s.lookAhead = newLookAhead(s.fetch, upstream.IsSorted(), debugChecks, upstream.Close)
	return s
}

func (s *sequenceSplitStream) fetch() (gnode.Node, error) {
	for {
		n, err := s.upstream.Next()
		if err != nil || n == nil {
			return n, err
		}
		if seq, ok := gnode.TryAs[*gnode.Sequence](n); ok {
			if s.onSequence != nil {
				s.onSequence(seq)
			}
			seq.Release()
			continue
		}
		return n, nil
	}
}
