package gstream

import "github.com/ncbi-tools/genomeflow/gnode"

// chseqidsStream is the *Seqid-rename (chseqids)* transform (spec
// §4.3): "Buffers nodes until the first non-region node arrives,
// renames every seqid according to a provided mapping, resorts,
// consolidates duplicated region nodes, then streams. Requires the
// upstream to be sorted."
type chseqidsStream struct {
	*lookAhead
	upstream Stream
	mapping  map[string]string
	acc      *accumulator
}

// NewChseqidsStream wraps upstream, renaming every seqid through
// mapping. Seqids absent from mapping are left unchanged. upstream must
// already promise sorted output (spec §4.3); this is not checked here,
// neither through upstream.IsSorted() nor at run time.
func NewChseqidsStream(upstream Stream, mapping map[string]string, debugChecks bool) Stream {
	s := &chseqidsStream{upstream: upstream, mapping: mapping}
	s.acc = &accumulator{upstream: upstream, transform: s.renameAndResort}
	s.lookAhead = newLookAhead(s.acc.fetch, true, debugChecks, upstream.Close)
	return s
}

func (s *chseqidsStream) renameAndResort(nodes []gnode.Node) []gnode.Node {
	for _, n := range nodes {
		seqid, ok := n.Seqid()
		if !ok {
			continue
		}
		if newID, ok := s.mapping[seqid]; ok {
			if sc, ok := n.(gnode.SeqidChanger); ok {
				sc.ChangeSeqid(newID)
			}
		}
	}
	return sortAndCoalesce(nodes)
}
