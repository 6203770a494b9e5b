package gnode

import "github.com/ncbi-tools/genomeflow/core"

// Visitor is a table of optional per-variant callbacks invoked by
// Accept (spec §4.1). A missing slot behaves as identity: it returns
// nil without touching the node. Visitors are reference-counted
// because a single visitor instance (e.g. the one backing a
// visitor-driven stream stage) is shared across every node it is
// applied to over the stream's lifetime.
type Visitor struct {
	rc core.RC

	OnFeature func(*Feature) error
	OnRegion  func(*Region) error
	OnSequence func(*Sequence) error
	OnComment func(*Comment) error
	OnMeta    func(*Meta) error
	OnEOF     func(*EOF) error

	// Release runs once when the visitor's refcount drops to zero. It
	// is the place a visitor-driven stream stage flushes any internal
	// buffer it built up (spec §4.1 "a visitor may enqueue nodes into
	// an internal buffer").
	Release func()
}

// NewVisitor returns a visitor with every slot empty (identity
// behaviour) and a single live reference.
func NewVisitor() *Visitor {
	return &Visitor{rc: core.NewRC()}
}

// Ref bumps the visitor's refcount and returns it, mirroring Node.Ref.
func (v *Visitor) Ref() *Visitor {
	v.rc.Ref()
	return v
}

// Close releases one reference, running Release on the last one.
func (v *Visitor) Close() {
	if v.rc.Release() && v.Release != nil {
		v.Release()
	}
}

// dispatch is the thin match-and-dispatch helper the Design Notes
// (SPEC_FULL.md / spec.md §9) call for in place of C's vtable-based
// double dispatch: Accept on each concrete node type forwards here.
func dispatch[T Node](n T, slot func(T) error) error {
	if slot == nil {
		return nil
	}
	return slot(n)
}
