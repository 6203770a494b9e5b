// Package bitvec implements the compressed rank/select bitvector of
// spec.md §4.4: a block-wise enumerative ("RRR") encoding storing, per
// fixed-size block, a popcount class and an offset within that class's
// combinatorial enumeration, plus cumulative per-superblock rank and
// offset-stream-position bookkeeping for O(1)-amortised access/rank and
// O(log N) select.
package bitvec

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/klauspost/cpuid"
)

// Default block and superblock sizes (spec §4.4: "block size 15" /
// "groups s consecutive blocks (default 32)").
const (
	DefaultBlockSize      = 15
	DefaultSuperblockSize = 32
)

// accelSelect gates the SSE4-assisted select path (spec §4.4:
// "select1 inside a 64-bit word (SSE4-accelerated when available,
// otherwise byte-lookup tables)"), grounded on the teacher's own use of
// cpuid.CPU in eutils/utils.go for runtime core-count detection. There
// is no cgo/assembly boundary in this module, so "accelerated" here
// only means choosing selectInValueFast, a plain per-bit loop over the
// block, instead of selectInValueScan's per-byte lookup-table scan —
// both are pure Go and return the same position.
var accelSelect = cpuid.CPU.SSE41

// Bitvector is an immutable compressed bit sequence supporting Access,
// Rank0/Rank1, and Select0/Select1 (spec §4.4).
type Bitvector struct {
	n             int
	blockSize     int
	superSize     int // blocks per superblock
	numBlocks     int
	numSuper      int
	classBits     int
	lastBlockLen  int

	classes *packedBits
	offsets *packedBits

	superOffsets []int // cumulative offsets-bit-length through superblock i
	superRanks   []int // cumulative popcount through superblock i

	tables *classTables
}

// BitFunc supplies bit i (0 = first bit) of the sequence to encode.
type BitFunc func(i int) bool

// Build constructs a Bitvector over n bits supplied by at, using the
// given block and superblock sizes. Passing 0 for either selects the
// spec's defaults.
func Build(n int, at BitFunc, blockSize, superblockSize int) *Bitvector {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if superblockSize <= 0 {
		superblockSize = DefaultSuperblockSize
	}
	tables := buildClassTables(blockSize)

	numBlocks := (n + blockSize - 1) / blockSize
	if n == 0 {
		numBlocks = 0
	}
	numSuper := (numBlocks + superblockSize - 1) / superblockSize

	bv := &Bitvector{
		n:         n,
		blockSize: blockSize,
		superSize: superblockSize,
		numBlocks: numBlocks,
		numSuper:  numSuper,
		classBits: bitsFor(blockSize + 1),
		classes:   &packedBits{},
		offsets:   &packedBits{},
		tables:    tables,
	}

	rank := 0
	offsetBits := 0
	for blk := 0; blk < numBlocks; blk++ {
		blen := bv.blockLenOf(blk)
		var value uint32
		for j := 0; j < blen; j++ {
			if at(blk*blockSize + j) {
				value |= 1 << uint(blockSize-1-j)
			}
		}
		class, offset := tables.encode(value)
		bv.classes.Append(uint64(class), bv.classBits)
		w := tables.offsetWidth(class)
		if w > 0 {
			bv.offsets.Append(uint64(offset), w)
		}
		rank += class
		offsetBits += w

		if (blk+1)%superblockSize == 0 || blk == numBlocks-1 {
			bv.superOffsets = append(bv.superOffsets, offsetBits)
			bv.superRanks = append(bv.superRanks, rank)
		}
	}

	if n == 0 {
		bv.lastBlockLen = 0
	} else if n%blockSize == 0 {
		bv.lastBlockLen = blockSize
	} else {
		bv.lastBlockLen = n % blockSize
	}

	return bv
}

// Len reports the number of encoded bits.
func (b *Bitvector) Len() int { return b.n }

func (b *Bitvector) blockLenOf(blk int) int {
	if blk == b.numBlocks-1 {
		rem := b.n - blk*b.blockSize
		return rem
	}
	return b.blockSize
}

// rankAndOffsetBefore returns the cumulative rank1 and offsets-bit
// position accumulated strictly before block blk, scanning at most
// superSize blocks within blk's own superblock (spec §4.4's "Σ class
// over blocks fully inside i's superblock prefix").
func (b *Bitvector) rankAndOffsetBefore(blk int) (rankBefore, offsetPos int) {
	superIdx := blk / b.superSize
	if superIdx > 0 {
		rankBefore = b.superRanks[superIdx-1]
		offsetPos = b.superOffsets[superIdx-1]
	}
	for j := superIdx * b.superSize; j < blk; j++ {
		c := int(b.classes.Read(j*b.classBits, b.classBits))
		rankBefore += c
		offsetPos += b.tables.offsetWidth(c)
	}
	return
}

func (b *Bitvector) blockValue(blk int) (class int, value uint32) {
	class = int(b.classes.Read(blk*b.classBits, b.classBits))
	_, offPos := b.rankAndOffsetBefore(blk)
	w := b.tables.offsetWidth(class)
	var offset uint32
	if w > 0 {
		offset = uint32(b.offsets.Read(offPos, w))
	}
	value = b.tables.value(class, offset)
	return
}

// Access returns bit i.
func (b *Bitvector) Access(i int) bool {
	b.checkBounds(i)
	blk, j := i/b.blockSize, i%b.blockSize
	_, value := b.blockValue(blk)
	return (value>>uint(b.blockSize-1-j))&1 == 1
}

// Rank1 returns the number of set bits in [0, i] (spec §4.4: "rank1(i):
// super_ranks[...] + Σ class ... + intra-block popcount").
func (b *Bitvector) Rank1(i int) int {
	b.checkBounds(i)
	blk, j := i/b.blockSize, i%b.blockSize
	rankBefore, _ := b.rankAndOffsetBefore(blk)
	_, value := b.blockValue(blk)
	k := j + 1
	prefix := bits.OnesCount32(value >> uint(b.blockSize-k))
	return rankBefore + prefix
}

// Rank0 returns the number of unset bits in [0, i], derived from Rank1
// via the invariant rank1(i)+rank0(i) = i+1 (spec §4.4).
func (b *Bitvector) Rank0(i int) int {
	return i + 1 - b.Rank1(i)
}

func (b *Bitvector) checkBounds(i int) {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("bitvec: index %d out of range [0,%d)", i, b.n))
	}
}

// Select1 returns the position of the k-th set bit (1-indexed).
func (b *Bitvector) Select1(k int) int {
	return b.selectBit(k, 1)
}

// Select0 returns the position of the k-th unset bit (1-indexed).
func (b *Bitvector) Select0(k int) int {
	return b.selectBit(k, 0)
}

func (b *Bitvector) selectBit(k, want int) int {
	if k <= 0 {
		panic("bitvec: select index must be >= 1")
	}
	superIdx := sort.Search(len(b.superRanks), func(i int) bool {
		total := b.superRanks[i]
		if want == 0 {
			total = (i + 1) * b.superSize * b.blockSize
			if i == len(b.superRanks)-1 {
				total = b.n
			}
			total -= b.superRanks[i]
		}
		return total >= k
	})
	if superIdx >= len(b.superRanks) {
		panic("bitvec: select index out of range")
	}

	rankBefore, offsetPos := 0, 0
	if superIdx > 0 {
		rankBefore = b.superRanks[superIdx-1]
		offsetPos = b.superOffsets[superIdx-1]
	}
	remaining := k
	if want == 1 {
		remaining = k - rankBefore
	} else {
		priorBits := superIdx * b.superSize * b.blockSize
		if priorBits > b.n {
			priorBits = b.n
		}
		remaining = k - (priorBits - rankBefore)
	}

	blk := superIdx * b.superSize
	for blk < b.numBlocks {
		class := int(b.classes.Read(blk*b.classBits, b.classBits))
		blen := b.blockLenOf(blk)
		count := class
		if want == 0 {
			count = blen - class
		}
		if count >= remaining {
			break
		}
		remaining -= count
		offsetPos += b.tables.offsetWidth(class)
		blk++
	}
	if blk >= b.numBlocks {
		panic("bitvec: select index out of range")
	}

	class := int(b.classes.Read(blk*b.classBits, b.classBits))
	w := b.tables.offsetWidth(class)
	var offset uint32
	if w > 0 {
		offset = uint32(b.offsets.Read(offsetPos, w))
	}
	value := b.tables.value(class, offset)
	blen := b.blockLenOf(blk)

	var j int
	if accelSelect {
		j = selectInValueFast(value, b.blockSize, blen, remaining, want)
	} else {
		j = selectInValueScan(value, b.blockSize, blen, remaining, want)
	}
	return blk*b.blockSize + j
}
