// Package wavelet implements the wavelet tree of spec.md §4.4: a
// balanced binary decomposition of a sequence's alphabet, represented
// as one compressed bitvector per tree level, supporting access, rank,
// and select in O(log sigma) bitvector operations.
package wavelet

import (
	"fmt"
	"math/bits"

	"github.com/ncbi-tools/genomeflow/bitvec"
	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/internal/encseq"
)

// Tree is a wavelet tree over symbols in [0, sigma) (spec §4.4).
type Tree struct {
	n      int
	sigma  int
	levels int
	bv     []*bitvec.Bitvector // one per level, each of length n
}

// Build constructs a Tree over syms (values in [0, sigma)). levels is
// derived as ceil(log2(sigma)); sigma==1 yields a zero-level tree whose
// single symbol is never actually encoded (Access/Rank/Select are
// trivial in that case).
//
// Node boundaries at each level are positions within that level's own
// bit array (spec §4.4: "Node boundaries at level l are derived at
// query time using cumulative rank0/rank1 over the previous level");
// construction recursively stable-partitions each node's member
// indices into a went-left block followed by a went-right block, one
// level at a time, so those boundaries line up identically across
// consecutive levels without ever being stored explicitly.
func Build(syms []byte, sigma int) (*Tree, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("wavelet: sigma must be positive")
	}
	for _, s := range syms {
		if int(s) >= sigma {
			return nil, fmt.Errorf("wavelet: symbol %d out of range [0,%d)", s, sigma)
		}
	}
	levels := bits.Len(uint(sigma - 1))
	n := len(syms)
	t := &Tree{n: n, sigma: sigma, levels: levels}
	if levels == 0 {
		return t, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	nodeRanges := [][2]int{{0, n}}

	t.bv = make([]*bitvec.Bitvector, levels)
	for level := 0; level < levels; level++ {
		shift := levels - level - 1
		scratch := core.NewBitSet(n)
		for pos, idx := range order {
			bit := (int(syms[idx]) >> uint(shift)) & 1
			scratch.Set(pos, bit == 1)
		}
		t.bv[level] = bitvec.Build(n, func(i int) bool { return scratch.Get(i) }, 0, 0)

		if level == levels-1 {
			break
		}
		next := make([]int, 0, n)
		var nextRanges [][2]int
		for _, rng := range nodeRanges {
			lo, hi := rng[0], rng[1]
			start := len(next)
			var zeros, ones []int
			for _, idx := range order[lo:hi] {
				if (int(syms[idx])>>uint(shift))&1 == 0 {
					zeros = append(zeros, idx)
				} else {
					ones = append(ones, idx)
				}
			}
			next = append(next, zeros...)
			next = append(next, ones...)
			if len(zeros) > 0 {
				nextRanges = append(nextRanges, [2]int{start, start + len(zeros)})
			}
			if len(ones) > 0 {
				nextRanges = append(nextRanges, [2]int{start + len(zeros), start + len(zeros) + len(ones)})
			}
		}
		order = next
		nodeRanges = nextRanges
	}
	return t, nil
}

// BuildFromProvider fetches seqid's full sequence from p and builds a
// Tree over it — the construction path spec §4.4 names: "construction
// from an encoded sequence via internal/encseq.Provider".
func BuildFromProvider(p encseq.Provider, seqid string, sigma int) (*Tree, error) {
	length, ok := p.Length(seqid)
	if !ok {
		return nil, fmt.Errorf("wavelet: unknown seqid %q", seqid)
	}
	syms, err := p.Fetch(seqid, 0, length)
	if err != nil {
		return nil, err
	}
	return Build(syms, sigma)
}

// Len reports the sequence length.
func (t *Tree) Len() int { return t.n }

func countOnes(bv *bitvec.Bitvector, lo, hi int) int {
	if hi <= lo {
		return 0
	}
	r := bv.Rank1(hi - 1)
	if lo > 0 {
		r -= bv.Rank1(lo - 1)
	}
	return r
}

func countZeros(bv *bitvec.Bitvector, lo, hi int) int {
	return (hi - lo) - countOnes(bv, lo, hi)
}

func (t *Tree) checkIndex(i int) error {
	if i < 0 || i >= t.n {
		return fmt.Errorf("wavelet: index %d out of range [0,%d)", i, t.n)
	}
	return nil
}

// Access returns the symbol at position i (spec §4.4: "descends from
// the root bit downward; at each level the next-level position is
// rank0/1(i) within the current node range").
func (t *Tree) Access(i int) (byte, error) {
	if err := t.checkIndex(i); err != nil {
		return 0, err
	}
	if t.levels == 0 {
		return 0, nil
	}
	var sym int
	lo, hi, pos := 0, t.n, i
	for level := 0; level < t.levels; level++ {
		bv := t.bv[level]
		bit := bv.Access(pos)
		sym <<= 1
		zerosInNode := countZeros(bv, lo, hi)
		if bit {
			sym |= 1
			localOnes := countOnes(bv, lo, pos+1) - 1
			lo = lo + zerosInNode
			pos = lo + localOnes
		} else {
			localZeros := countZeros(bv, lo, pos+1) - 1
			hi = lo + zerosInNode
			pos = lo + localZeros
		}
	}
	return byte(sym), nil
}

// Rank returns the number of occurrences of sym in the closed prefix
// [0, i] (spec §4.4: "descends analogously but terminates once the i
// within the current node drops to zero"; see spec §8's worked example
// for the inclusive convention: rank(length-1, s) counts every
// occurrence of s).
func (t *Tree) Rank(i int, sym byte) (int, error) {
	if i < -1 || i >= t.n {
		return 0, fmt.Errorf("wavelet: index %d out of range [-1,%d)", i, t.n)
	}
	if int(sym) >= t.sigma {
		return 0, fmt.Errorf("wavelet: symbol %d out of range [0,%d)", sym, t.sigma)
	}
	if i < 0 {
		return 0, nil
	}
	if t.levels == 0 {
		return i + 1, nil
	}
	lo, p := 0, i+1
	hi := t.n
	for level := 0; level < t.levels; level++ {
		bv := t.bv[level]
		shift := t.levels - level - 1
		bit := (int(sym) >> uint(shift)) & 1
		zerosInNode := countZeros(bv, lo, hi)
		if bit == 0 {
			p = countZeros(bv, lo, lo+p)
			hi = lo + zerosInNode
		} else {
			p = countOnes(bv, lo, lo+p)
			lo = lo + zerosInNode
		}
	}
	return p, nil
}

// Select returns the position of the k-th (1-indexed) occurrence of
// sym (spec §4.4: "descends to the leaf to compute node sizes, then
// ascends using select0/1 on the parent's bitvector").
func (t *Tree) Select(k int, sym byte) (int, error) {
	if k <= 0 {
		return 0, fmt.Errorf("wavelet: select index must be >= 1")
	}
	if int(sym) >= t.sigma {
		return 0, fmt.Errorf("wavelet: symbol %d out of range [0,%d)", sym, t.sigma)
	}
	if t.levels == 0 {
		if k > t.n {
			return 0, fmt.Errorf("wavelet: select index %d exceeds length %d", k, t.n)
		}
		return k - 1, nil
	}

	type span struct{ lo, hi, bit int }
	path := make([]span, t.levels)
	lo, hi := 0, t.n
	for level := 0; level < t.levels; level++ {
		bv := t.bv[level]
		shift := t.levels - level - 1
		bit := (int(sym) >> uint(shift)) & 1
		path[level] = span{lo, hi, bit}
		zerosInNode := countZeros(bv, lo, hi)
		if bit == 0 {
			hi = lo + zerosInNode
		} else {
			lo = lo + zerosInNode
		}
	}
	if k > hi-lo {
		return 0, fmt.Errorf("wavelet: symbol %v occurs fewer than %d times", sym, k)
	}
	pos := lo + (k - 1)

	for level := t.levels - 1; level >= 0; level-- {
		bv := t.bv[level]
		sp := path[level]
		var offsetInChild int
		if sp.bit == 0 {
			offsetInChild = pos - sp.lo + 1
		} else {
			zerosInNode := countZeros(bv, sp.lo, sp.hi)
			offsetInChild = pos - (sp.lo + zerosInNode) + 1
		}
		if sp.bit == 0 {
			globalK := countZeros(bv, 0, sp.lo) + offsetInChild
			pos = bv.Select0(globalK)
		} else {
			globalK := countOnes(bv, 0, sp.lo) + offsetInChild
			pos = bv.Select1(globalK)
		}
	}
	return pos, nil
}
