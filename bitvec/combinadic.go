package bitvec

import "math/bits"

// maxBlockSize bounds blockSize so the brute-force enumeration tables
// built below stay within a reasonable memory footprint (2^24 entries
// at the limit). The default block size (spec §4.4) is 15.
const maxBlockSize = 24

// classTables holds, for a given block size, every possible b-bit block
// value grouped by popcount ("class"), in ascending numeric order, plus
// the reverse index from a block's raw value to its offset within its
// class. This is the "precomputed popcount table indexed by (class,
// offset) -> original b-bit block" spec §4.4 calls for.
type classTables struct {
	blockSize int
	decode    [][]uint32 // decode[class][offset] -> b-bit value
	width     []int      // width[class] -> bits needed for offset
	offsetOf  []uint32   // offsetOf[value] -> offset within decode[popcount(value)]
}

func buildClassTables(blockSize int) *classTables {
	if blockSize < 1 || blockSize > maxBlockSize {
		panic("bitvec: block size out of range")
	}
	total := 1 << uint(blockSize)
	t := &classTables{
		blockSize: blockSize,
		decode:    make([][]uint32, blockSize+1),
		offsetOf:  make([]uint32, total),
	}
	for v := 0; v < total; v++ {
		c := bits.OnesCount32(uint32(v))
		t.decode[c] = append(t.decode[c], uint32(v))
		t.offsetOf[v] = uint32(len(t.decode[c]) - 1)
	}
	t.width = make([]int, blockSize+1)
	for c := range t.decode {
		t.width[c] = bitsFor(len(t.decode[c]))
	}
	return t
}

// encode packs a b-bit block (bit j held at value's (b-1-j)th position,
// matching the MSB-first convention Build uses) into (class, offset).
func (t *classTables) encode(value uint32) (class int, offset uint32) {
	class = bits.OnesCount32(value)
	offset = t.offsetOf[value]
	return
}

func (t *classTables) value(class int, offset uint32) uint32 {
	return t.decode[class][offset]
}

func (t *classTables) offsetWidth(class int) int {
	return t.width[class]
}
