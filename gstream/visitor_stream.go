package gstream

import (
	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// visitorStream is the shared two-state FSM backing most
// "visitor-driven transforms" named in spec §4.3: draining upstream vs.
// draining an internal buffer the visitor filled. Simple pass-through
// visitors (the common case: mutate in place, emit the same node)
// never populate the buffer; inter-feature, sequence-node-out, and
// sequence-node-add do.
type visitorStream struct {
	*lookAhead
	upstream Stream
	visitor  *gnode.Visitor
	pending  *core.Queue[gnode.Node]
	// onEnd is called once, after upstream is exhausted, so a
	// transform can synthesize trailing nodes (sequence-node-add)
	// before the stream itself reports end-of-stream.
	onEnd   func(push func(gnode.Node))
	endDone bool
}

// newVisitorStream builds the FSM. queue, if non-nil, is a FIFO the
// caller's visitor callbacks already close over (so they can push
// synthesized nodes into it directly); if nil, one is allocated here
// for transforms that never synthesize extra nodes.
func newVisitorStream(upstream Stream, v *gnode.Visitor, debugChecks bool, queue *core.Queue[gnode.Node], onEnd func(push func(gnode.Node))) *visitorStream {
	if queue == nil {
		queue = core.NewQueue[gnode.Node](8)
	}
	s := &visitorStream{upstream: upstream, visitor: v, pending: queue, onEnd: onEnd}
	s.lookAhead = newLookAhead(s.fetch, upstream.IsSorted(), debugChecks, func() {
		upstream.Close()
		v.Close()
	})
	return s
}

func (s *visitorStream) fetch() (gnode.Node, error) {
	for {
		if n, ok := s.pending.Pop(); ok {
			return n, nil
		}
		n, err := s.upstream.Next()
		if err != nil {
			return nil, err
		}
		if n == nil {
			if s.onEnd != nil && !s.endDone {
				s.endDone = true
				s.onEnd(func(out gnode.Node) { s.pending.Push(out) })
				continue
			}
			return nil, nil
		}
		if err := n.Accept(s.visitor); err != nil {
			n.Release()
			return nil, err
		}
		if !s.pending.Empty() {
			// the visitor enqueued synthesized nodes (spec §4.1); the
			// triggering node itself may or may not also be emitted,
			// depending on the transform's OnXxx callback, which is
			// responsible for pushing it if it wants it kept.
			continue
		}
		return n, nil
	}
}
