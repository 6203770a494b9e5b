package gstream

import (
	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// bufferStream is the *Buffer* transform (spec §4.3): "Has two modes:
// buffering (pulls from upstream and also retains a FIFO copy) and
// dequeue (serves only from the FIFO). Transition is a one-shot
// method." State is user-driven (record <-> replay), per spec §4.3's
// state-machine table.
type bufferStream struct {
	*lookAhead
	upstream  Stream
	recording *core.Queue[gnode.Node]
	dequeuing bool
}

// NewBufferStream wraps upstream in recording mode: every node pulled
// through it is both returned to the caller and retained in an
// internal FIFO until StartDequeue is called.
func NewBufferStream(upstream Stream, debugChecks bool) *BufferStream {
	b := &bufferStream{upstream: upstream, recording: core.NewQueue[gnode.Node](64)}
	b.lookAhead = newLookAhead(b.fetch, upstream.IsSorted(), debugChecks, upstream.Close)
	return &BufferStream{bufferStream: b}
}

// BufferStream is the exported handle; StartDequeue is the one-shot
// mode transition spec §4.3 describes.
type BufferStream struct {
	*bufferStream
}

// StartDequeue switches the stream from recording to replaying its
// internal FIFO. It is irreversible, matching the teacher corpus's
// general preference for simple one-directional state machines over
// general-purpose mode toggles.
func (b *BufferStream) StartDequeue() {
	b.dequeuing = true
}

// Next serves nodes one at a time without the look-ahead prefetch, so
// the FIFO holds exactly the nodes the caller has received when
// StartDequeue is called.
func (b *bufferStream) Next() (gnode.Node, error) {
	return b.fetch()
}

func (b *bufferStream) fetch() (gnode.Node, error) {
	if b.dequeuing {
		n, ok := b.recording.Pop()
		if !ok {
			return nil, nil
		}
		return n, nil
	}
	n, err := b.upstream.Next()
	if err != nil || n == nil {
		return n, err
	}
	b.recording.Push(n.Ref())
	return n, nil
}
