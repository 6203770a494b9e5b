// Package gnode implements the genome-node / visitor object system:
// the fixed six-variant sum type the node-stream pipeline (package
// gstream) operates over, and the double-dispatch Visitor contract
// algorithms are expressed against. See spec.md §3 and §4.1.
package gnode

import (
	"fmt"

	"github.com/ncbi-tools/genomeflow/core"
)

// Kind tags which of the six fixed variants a Node is. Each variant's
// own Accept method routes a visitor call to the matching callback, and
// the try-cast/cast helpers use a Go type assertion, so a stream holding
// a Node interface value never needs to know the concrete type itself.
type Kind int

const (
	KindFeature Kind = iota
	KindRegion
	KindSequence
	KindComment
	KindMeta
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindFeature:
		return "feature"
	case KindRegion:
		return "region"
	case KindSequence:
		return "sequence"
	case KindComment:
		return "comment"
	case KindMeta:
		return "meta"
	case KindEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Range is a closed integer interval [Start, End], 1-based for the GFF3
// dialect and preserved as stored (spec §3).
type Range struct {
	Start, End int
}

// Valid reports whether the range satisfies the universal invariant
// Start <= End (spec §3, §8).
func (r Range) Valid() bool {
	return r.Start <= r.End
}

// Union returns the smallest range containing both r and o, used by the
// Sort stream to coalesce consecutive region nodes on the same seqid
// (spec §4.3).
func (r Range) Union(o Range) Range {
	u := r
	if o.Start < u.Start {
		u.Start = o.Start
	}
	if o.End > u.End {
		u.End = o.End
	}
	return u
}

// Contains reports whether r fully contains o.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one coordinate.
func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

// Header is the common state every node variant carries: seqid, source
// range, file provenance, and a reference count (spec §3).
type Header struct {
	rc         core.RC
	seqid      string
	hasSeqid   bool
	rng        Range
	Filename   string
	LineNumber int
}

func newHeader(seqid string, hasSeqid bool, rng Range) Header {
	return Header{rc: core.NewRC(), seqid: seqid, hasSeqid: hasSeqid, rng: rng}
}

// Node is the common contract every genome-node variant implements
// (spec §4.1's "public contract of a node").
type Node interface {
	Kind() Kind
	Ref() Node
	Release()
	Seqid() (string, bool)
	IDString() string
	Range() Range
	Accept(v *Visitor) error
}

// RangeSetter is implemented by variants whose range can be mutated in
// place (Feature, Region). Variants that do not implement it reject
// SetRange as a programming error, per spec §4.1.
type RangeSetter interface {
	SetRange(r Range)
}

// SeqidChanger is implemented by variants whose seqid can be rewritten
// in place (Feature, Region), used by the chseqids transform.
type SeqidChanger interface {
	ChangeSeqid(s string)
}

// TryAs attempts an O(1) tag-compare downcast of n to T, returning
// (zero, false) if n is not of that concrete type. It never panics
// (spec §4.1 "try_as_variant").
func TryAs[T Node](n Node) (T, bool) {
	v, ok := n.(T)
	return v, ok
}

// As requires n to be of concrete type T, panicking (a programming
// error, spec §7) otherwise (spec §4.1 "as_variant").
func As[T Node](n Node) T {
	v, ok := n.(T)
	if !ok {
		panic(fmt.Sprintf("gnode: wrong variant cast, wanted %T", *new(T)))
	}
	return v
}

// typeRank fixes the tie-breaking order Compare uses when seqid and
// start/end coordinates are all equal (spec §4.1).
func typeRank(k Kind) int {
	switch k {
	case KindRegion:
		return 0
	case KindFeature:
		return 1
	case KindSequence:
		return 2
	case KindComment:
		return 3
	case KindMeta:
		return 4
	case KindEOF:
		return 5
	default:
		return 6
	}
}

// isSynthetic reports whether n's IDString is the synthetic empty id
// used by comment and meta nodes (spec §4.1: "a synthetic empty string
// that sorts last").
func isSynthetic(n Node) bool {
	k := n.Kind()
	return k == KindComment || k == KindMeta
}

// Compare implements the total order used by sort streams: key is
// (id_string, range.start, range.end, type-rank) (spec §4.1), except
// that a region node sorts before every other node with the same seqid
// and start, whatever their ends. Comment and meta nodes carry a synthetic empty id that must sort after every
// node with a real seqid, so a plain lexical compare on the empty
// string (which would sort first) is special-cased here.
func Compare(a, b Node) int {
	aSynth, bSynth := isSynthetic(a), isSynthetic(b)
	if aSynth != bSynth {
		if aSynth {
			return 1
		}
		return -1
	}
	ai, bi := a.IDString(), b.IDString()
	if ai != bi {
		if ai < bi {
			return -1
		}
		return 1
	}
	ar, br := a.Range(), b.Range()
	if ar.Start != br.Start {
		if ar.Start < br.Start {
			return -1
		}
		return 1
	}
	if aReg, bReg := a.Kind() == KindRegion, b.Kind() == KindRegion; aReg != bReg {
		if aReg {
			return -1
		}
		return 1
	}
	if ar.End != br.End {
		if ar.End < br.End {
			return -1
		}
		return 1
	}
	at, bt := typeRank(a.Kind()), typeRank(b.Kind())
	switch {
	case at < bt:
		return -1
	case at > bt:
		return 1
	default:
		return 0
	}
}
