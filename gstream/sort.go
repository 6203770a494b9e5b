package gstream

import (
	"sort"

	"github.com/ncbi-tools/genomeflow/gnode"
)

// accumulator is the three-state FSM shared by Sort and Load (spec
// §4.3: "Sort and load are three-state (accumulate -> sort -> serve ->
// done)"): pull everything from upstream, transform once, then serve.
type accumulator struct {
	upstream  Stream
	nodes     []gnode.Node
	state     int // 0=accumulate, 1=serving, 2=erred
	err       error
	idx       int
	transform func([]gnode.Node) []gnode.Node
}

const (
	accAccumulate = iota
	accServing
	accErred
)

func (a *accumulator) ensureReady() error {
	if a.state == accServing {
		return nil
	}
	if a.state == accErred {
		return a.err
	}
	for {
		n, err := a.upstream.Next()
		if err != nil {
			// Partially accumulated nodes were never transferred to a
			// caller and upstream does not own them any more; release
			// them here rather than dropping them silently.
			for _, buffered := range a.nodes {
				buffered.Release()
			}
			a.nodes = nil
			a.state = accErred
			a.err = err
			return err
		}
		if n == nil {
			break
		}
		a.nodes = append(a.nodes, n)
	}
	a.nodes = a.transform(a.nodes)
	a.state = accServing
	return nil
}

func (a *accumulator) fetch() (gnode.Node, error) {
	if err := a.ensureReady(); err != nil {
		return nil, err
	}
	if a.idx >= len(a.nodes) {
		return nil, nil
	}
	n := a.nodes[a.idx]
	a.idx++
	return n, nil
}

// sortStream is the *Sort* transform: "Reads the entire upstream into a
// vector, runs a stable sort under compare, then serves. Coalesces
// consecutive region nodes with equal seqid by range = union." (spec
// §4.3) Memory use is documented as O(input) (spec §5).
type sortStream struct {
	*lookAhead
	acc *accumulator
}

// NewSortStream wraps upstream with the Sort transform. Its output
// always promises sorted order.
func NewSortStream(upstream Stream, debugChecks bool) Stream {
	s := &sortStream{}
	s.acc = &accumulator{upstream: upstream, transform: sortAndCoalesce}
	s.lookAhead = newLookAhead(s.acc.fetch, true, debugChecks, upstream.Close)
	return s
}

func sortAndCoalesce(nodes []gnode.Node) []gnode.Node {
	sort.SliceStable(nodes, func(i, j int) bool {
		return gnode.Compare(nodes[i], nodes[j]) < 0
	})

	out := make([]gnode.Node, 0, len(nodes))
	for _, n := range nodes {
		if rg, ok := gnode.TryAs[*gnode.Region](n); ok && len(out) > 0 {
			if prev, ok := gnode.TryAs[*gnode.Region](out[len(out)-1]); ok {
				seqid, _ := prev.Seqid()
				otherSeqid, _ := rg.Seqid()
				if seqid == otherSeqid {
					prev.SetRange(prev.Range().Union(rg.Range()))
					rg.Release()
					continue
				}
			}
		}
		out = append(out, n)
	}
	return out
}

// loadStream is the *Load* transform: "Same as sort but preserves
// insertion order; used to measure peak memory." (spec §4.3)
type loadStream struct {
	*lookAhead
	acc *accumulator
}

// NewLoadStream wraps upstream with the Load transform.
func NewLoadStream(upstream Stream, debugChecks bool) Stream {
	s := &loadStream{}
	s.acc = &accumulator{upstream: upstream, transform: func(n []gnode.Node) []gnode.Node { return n }}
	s.lookAhead = newLookAhead(s.acc.fetch, upstream.IsSorted(), debugChecks, upstream.Close)
	return s
}

// PeakMemoryBudget reports total and free system RAM. Sort and Load do
// not call it and print no memory warning; cmd/sortbench reports it
// after sorting, making spec §5's O(input) cost of Load/Sort visible.
// Grounded on the
// teacher's own use of pbnjay/memory (utils.go) to scale processing
// pool sizes to available RAM.
func PeakMemoryBudget() (total, free uint64) {
	return memTotal(), memFree()
}
