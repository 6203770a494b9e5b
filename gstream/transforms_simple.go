package gstream

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/gedex/inflector"
	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// NewCDSCheckStream is the *CDS-check* visitor-driven transform (spec
// §4.3): verifies that every CDS child has a valid type, is a valid part
// of its parent, and lies within its parent's range (spec §3's "child
// ranges are contained in its parent range"). CDS phases are not
// checked.
func NewCDSCheckStream(upstream Stream, tc gnode.TypeChecker, strict, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		return checkCDS(f, tc, strict)
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

func checkCDS(f *gnode.Feature, tc gnode.TypeChecker, strict bool) error {
	if tc == nil {
		tc = gnode.NullTypeChecker{}
	}
	for _, c := range f.Children() {
		if c.Type == "CDS" {
			var err error
			switch {
			case !tc.IsValid(c.Type):
				err = fmt.Errorf("%s:%d: unknown type %q (%s)", c.Filename, c.LineNumber, c.Type, tc.Describe(c.Type))
			case !tc.IsPartOf(c.Type, f.Type):
				err = fmt.Errorf("%s:%d: %s is not a valid part of %s", c.Filename, c.LineNumber, c.Type, f.Type)
			case !f.Range().Contains(c.Range()):
				err = fmt.Errorf("%s:%d: CDS %v exceeds parent %v", c.Filename, c.LineNumber, c.Range(), f.Range())
			}
			if err != nil {
				if strict {
					return err
				}
				core.Warnf("%v", err)
			}
		}
		if err := checkCDS(c, tc, strict); err != nil {
			return err
		}
	}
	return nil
}

// NewCheckBoundariesStream is the *check-boundaries* transform (spec
// §4.3): the general case of the containment invariant (spec §3: "A
// feature's child ranges are contained in its parent range unless the
// boundary-check stage explicitly tolerates violations").
func NewCheckBoundariesStream(upstream Stream, tolerate, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		return checkBoundaries(f, tolerate)
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

func checkBoundaries(f *gnode.Feature, tolerate bool) error {
	for _, c := range f.Children() {
		if !f.Range().Contains(c.Range()) {
			err := fmt.Errorf("%s:%d: child %s %v not contained in parent %s %v", c.Filename, c.LineNumber, c.Type, c.Range(), f.Type, f.Range())
			if !tolerate {
				return err
			}
			core.Warnf("%v", err)
		}
		if err := checkBoundaries(c, tolerate); err != nil {
			return err
		}
	}
	return nil
}

// NewCollectIDsStream is the *collect-ids* transform (spec §4.3): O(1)
// working set per node plus an O(unique-ids) bookkeeping table (spec
// §5), here exposed to the caller via ids.
func NewCollectIDsStream(upstream Stream, ids *core.StrMap[int], debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		if id, ok := f.Attrs.ID(); ok {
			n, _ := ids.Get(id)
			ids.Set(id, n+1)
		}
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

// NewIDToMD5Stream is the *id-to-md5* transform (spec §4.3): rewrites
// each feature's ID to the hex MD5 digest of its original value,
// grounded on genometools' uint64hashtable.c idea of keying on a hashed
// identity (SPEC_FULL.md §4) — here the hash is the replacement value
// itself, not just a lookup key.
func NewIDToMD5Stream(upstream Stream, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		if id, ok := f.Attrs.ID(); ok {
			sum := md5.Sum([]byte(id))
			f.Attrs.SetID(hex.EncodeToString(sum[:]))
		}
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

// NewSeqidsToMD5Stream is the *seqids-to-md5* transform (spec §4.3):
// rewrites every feature and region node's seqid to its MD5 digest,
// caching each digest in a Uint64Map keyed by an FNV-1a hash of the
// original seqid, so repeated seqids are not re-digested (and Region
// and Feature nodes for the same seqid agree).
func NewSeqidsToMD5Stream(upstream Stream, debugChecks bool) Stream {
	cache := core.NewUint64Map[string](64)
	rewrite := func(seqid string) string {
		key := fnv64(seqid)
		if v, ok := cache.Get(key); ok {
			return v
		}
		sum := md5.Sum([]byte(seqid))
		hexSum := hex.EncodeToString(sum[:])
		cache.Set(key, hexSum)
		return hexSum
	}
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		if s, ok := f.Seqid(); ok {
			f.ChangeSeqid(rewrite(s))
		}
		return nil
	}
	v.OnRegion = func(r *gnode.Region) error {
		if s, ok := r.Seqid(); ok {
			r.ChangeSeqid(rewrite(s))
		}
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

func fnv64(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// StatCounts is the summary NewStatStream accumulates (spec §4.3's
// "stat" transform).
type StatCounts struct {
	counts *core.StrMap[int]
}

// NewStatCounts returns an empty counter.
func NewStatCounts() *StatCounts {
	return &StatCounts{counts: core.NewStrMap[int]()}
}

// Summary renders "<n> <pluralized type>" lines using gedex/inflector,
// the way eutils/json.go pluralizes wrapper tag names (SPEC_FULL.md §2
// domain-stack table).
func (s *StatCounts) Summary() []string {
	var out []string
	s.counts.Range(func(typ string, n int) bool {
		label := typ
		if n != 1 {
			label = inflector.Pluralize(typ)
		}
		out = append(out, fmt.Sprintf("%d %s", n, label))
		return true
	})
	return out
}

// NewStatStream is the *stat* visitor-driven transform (spec §4.3):
// tallies feature types as they pass through, pass-through otherwise.
func NewStatStream(upstream Stream, sc *StatCounts, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		n, _ := sc.counts.Get(f.Type)
		sc.counts.Set(f.Type, n+1)
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

// NewResetSourceStream is the *reset-source* transform (spec §4.3):
// clears every feature's source column attribution, here represented
// as the conventional "source" attribute key.
func NewResetSourceStream(upstream Stream, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		f.Attrs.Delete("source")
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

// NewSetSourceStream is the *set-source* transform (spec §4.3): forces
// every feature's source attribution to a fixed value.
func NewSetSourceStream(upstream Stream, source string, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		f.Attrs.Set("source", gnode.NewScalarAttr(source))
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

// NewTidyRegionStream is the *tidy-region* transform (spec §4.3):
// clamps a region's declared range to be non-negative and internally
// consistent (start<=end), repairing rather than rejecting, the way
// tidy mode is documented to behave throughout (spec §7).
func NewTidyRegionStream(upstream Stream, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnRegion = func(r *gnode.Region) error {
		rng := r.Range()
		if rng.Start < 1 {
			rng.Start = 1
		}
		if rng.Start > rng.End {
			rng.Start, rng.End = rng.End, rng.Start
		}
		r.SetRange(rng)
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}
