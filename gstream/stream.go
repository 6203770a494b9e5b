// Package gstream implements the pull-based node-stream pipeline:
// the one-step look-ahead Stream contract (spec.md §4.2) and the
// concrete stream library built on top of it (spec.md §4.3).
package gstream

import (
	"fmt"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// Stream is the node-stream abstraction of spec §4.2: "next(out_node,
// err) -> status" with one-step look-ahead. Concrete stages implement
// next (lowercase) via the fetch function they're built with; the
// exported Next method below (embedded through lookAhead) supplies the
// buffering and the ensure_sorting check uniformly, the way every
// concrete C stream in the source shares node_stream.c's bookkeeping.
type Stream interface {
	// Next pulls the next node. A nil Node with a nil error means
	// end-of-stream; a nil Node with a non-nil error means upstream
	// failed and the caller must not use the result. Ownership of a
	// non-nil Node transfers to the caller, who must call Release.
	Next() (gnode.Node, error)

	// IsSorted exposes the stream's sorted-output promise without
	// performing any runtime check (spec §4.2).
	IsSorted() bool

	// Close releases the stream's reference to its upstream and any
	// buffered nodes (spec §3 "Streams" lifecycle).
	Close()
}

// OrderViolationError is raised when ensure_sorting catches a stream
// yielding nodes out of order (spec §4.2, §5, §8). It is a programming
// error per spec §7: the pipeline was assembled incorrectly.
type OrderViolationError struct {
	Prev, Next gnode.Node
}

func (e *OrderViolationError) Error() string {
	return fmt.Sprintf("gstream: order violation: %v then %v", describeNode(e.Prev), describeNode(e.Next))
}

func describeNode(n gnode.Node) string {
	if n == nil {
		return "<nil>"
	}
	r := n.Range()
	return fmt.Sprintf("%s(%s:%d-%d)", n.Kind(), n.IDString(), r.Start, r.End)
}

// fetchFunc is what a concrete source/transform implements: produce the
// next raw node, or (nil, nil) at end of input, or (nil, err) on
// failure. lookAhead wraps it with the one-step buffering and the
// optional order check every Stream needs.
type fetchFunc func() (gnode.Node, error)

// lookAhead implements the shared next() bookkeeping described in
// spec §4.2: "Pulls two nodes at first invocation to prime the
// look-ahead... thereafter, pulls one per call... Returns null exactly
// once at end-of-stream; subsequent calls keep returning null."
type lookAhead struct {
	fetch        fetchFunc
	sorted       bool
	debugCheck   bool
	primed       bool
	buffered     gnode.Node
	bufferedErr  error
	atEOF        bool
	rc           core.RC
	closeHook    func()
}

// newLookAhead wraps fetch with look-ahead buffering. sorted is the
// stream's promise; debugCheck enables the runtime verification spec
// §4.2 requires "in debug builds" — callers building a release-mode
// CLI can disable it, mirroring the C source's NDEBUG-gated gt_assert.
func newLookAhead(fetch fetchFunc, sorted, debugCheck bool, closeHook func()) *lookAhead {
	return &lookAhead{fetch: fetch, sorted: sorted, debugCheck: debugCheck, rc: core.NewRC(), closeHook: closeHook}
}

func (s *lookAhead) prime() {
	if s.primed {
		return
	}
	s.primed = true
	s.buffered, s.bufferedErr = s.fetch()
	if s.buffered == nil && s.bufferedErr == nil {
		s.atEOF = true
	}
}

// Next implements Stream.Next's shared buffering contract.
func (s *lookAhead) Next() (gnode.Node, error) {
	s.prime()

	if s.bufferedErr != nil {
		err := s.bufferedErr
		s.bufferedErr = nil
		s.buffered = nil
		s.atEOF = true
		return nil, err
	}
	if s.buffered == nil {
		return nil, nil
	}

	out := s.buffered
	nxt, err := s.fetch()

	if sorted := s.sorted && s.debugCheck; sorted && nxt != nil {
		if gnode.Compare(out, nxt) > 0 {
			err = &OrderViolationError{Prev: out, Next: nxt}
		}
	}

	if err != nil {
		// out was never served to a caller; leave it buffered so
		// Close can still release it. Callers must not use the
		// returned node when err != nil. nxt, when this is an
		// OrderViolationError rather than a genuine fetch error, was
		// successfully pulled and has no other owner — release it
		// now since the stream is done after a programming-error abort.
		s.buffered = out
		s.atEOF = true
		if nxt != nil {
			nxt.Release()
		}
		return nil, err
	}

	s.buffered = nxt
	if nxt == nil {
		s.atEOF = true
	}
	return out, nil
}

func (s *lookAhead) IsSorted() bool { return s.sorted }

func (s *lookAhead) Close() {
	if !s.rc.Release() {
		return
	}
	if s.buffered != nil {
		s.buffered.Release()
		s.buffered = nil
	}
	if s.closeHook != nil {
		s.closeHook()
	}
}

// Pull is the convenience drain of spec §4.2: repeatedly call Next,
// releasing each node, until end-of-stream or error.
func Pull(s Stream) error {
	for {
		n, err := s.Next()
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		n.Release()
	}
}
