package gstream

import (
	"errors"
	"testing"

	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingNode is a minimal gnode.Node whose Release is observable,
// used to prove nodes are not silently dropped on an error path.
type countingNode struct {
	released *int
	rng      gnode.Range
}

func (n *countingNode) Kind() gnode.Kind      { return gnode.KindRegion }
func (n *countingNode) Ref() gnode.Node       { return n }
func (n *countingNode) Release()              { *n.released++ }
func (n *countingNode) Seqid() (string, bool) { return "chr1", true }
func (n *countingNode) IDString() string      { return "chr1" }
func (n *countingNode) Range() gnode.Range {
	if n.rng == (gnode.Range{}) {
		return gnode.Range{Start: 1, End: 10}
	}
	return n.rng
}
func (n *countingNode) Accept(v *gnode.Visitor) error { return nil }

// erroringStream serves a fixed run of nodes then fails.
type erroringStream struct {
	nodes []gnode.Node
	i     int
	err   error
}

func (s *erroringStream) Next() (gnode.Node, error) {
	if s.i >= len(s.nodes) {
		return nil, s.err
	}
	n := s.nodes[s.i]
	s.i++
	return n, nil
}
func (s *erroringStream) IsSorted() bool { return false }
func (s *erroringStream) Close()         {}

func TestLookAheadReleasesBufferedNodeOnPrimingError(t *testing.T) {
	var released int
	out := &countingNode{released: &released}
	upstream := &erroringStream{nodes: []gnode.Node{out}, err: errors.New("boom")}

	la := newLookAhead(upstream.Next, false, false, upstream.Close)

	n, err := la.Next()
	require.Error(t, err)
	assert.Nil(t, n, "caller must not receive a node alongside a non-nil error")
	assert.Equal(t, 0, released, "buffered node must not be released before Close")

	la.Close()
	assert.Equal(t, 1, released, "Close must release the node left buffered by the failed priming fetch")
}

func TestAccumulatorReleasesPartialNodesOnUpstreamError(t *testing.T) {
	var r1, r2 int
	n1 := &countingNode{released: &r1}
	n2 := &countingNode{released: &r2}
	upstream := &erroringStream{nodes: []gnode.Node{n1, n2}, err: errors.New("boom")}

	a := &accumulator{upstream: upstream, transform: func(n []gnode.Node) []gnode.Node { return n }}

	err := a.ensureReady()
	require.Error(t, err)
	assert.Equal(t, 1, r1, "node accumulated before the error must be released, not dropped")
	assert.Equal(t, 1, r2, "node accumulated before the error must be released, not dropped")
	assert.Empty(t, a.nodes)

	err2 := a.ensureReady()
	assert.Equal(t, err, err2, "a poisoned accumulator keeps returning the same error")
}

func TestLookAheadReleasesNextNodeOnOrderViolation(t *testing.T) {
	// lookAhead primes on the very first Next() call, which already
	// pulls one node ahead to check ordering: first is the one about
	// to be served (held back in s.buffered on error), second is the
	// look-ahead pull that trips the order check and is never served.
	var r1, r2 int
	first := &countingNode{released: &r1, rng: gnode.Range{Start: 20, End: 30}}
	second := &countingNode{released: &r2, rng: gnode.Range{Start: 1, End: 10}}
	upstream := &erroringStream{nodes: []gnode.Node{first, second}}

	la := newLookAhead(upstream.Next, true, true, upstream.Close)

	n, err := la.Next()
	require.Error(t, err)
	var orderErr *OrderViolationError
	require.ErrorAs(t, err, &orderErr)
	assert.Nil(t, n)
	assert.Equal(t, 1, r2, "the look-ahead node was fetched but never handed to a caller; it must be released immediately")
	assert.Equal(t, 0, r1, "the served-but-withheld node is not released until Close")

	la.Close()
	assert.Equal(t, 1, r1, "Close releases the node left buffered after the order-violation abort")
}
