package bitvec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// header holds spec §6's "Compressed bitvector file" header fields:
// thirteen machine words, in write order. The four data arrays follow
// in that same order, each preceded by one extra word holding its
// length in words. No magic number; files are positional.
type header struct {
	COffsetsSize           uint64
	ClassesSize            uint64
	NumOfBits              uint64
	NumOfBlocks            uint64
	NumOfSuperblocks       uint64
	SuperblockOffsetsSize  uint64
	SuperblockRanksSize    uint64
	BlockSize              uint64
	ClassBits              uint64
	LastBlockLen           uint64
	SuperblockOffsetsBits  uint64
	SuperblockRanksBits    uint64
	SuperblockSize         uint64
}

// WriteTo serialises b in the on-disk format of spec §6.
func (b *Bitvector) WriteTo(w io.Writer) (int64, error) {
	superOffsetsBits := bitsFor(maxIntPlus1(b.superOffsets))
	superRanksBits := bitsFor(maxIntPlus1(b.superRanks))

	superOffsetsPacked := packFixedWidth(b.superOffsets, superOffsetsBits)
	superRanksPacked := packFixedWidth(b.superRanks, superRanksBits)

	h := header{
		COffsetsSize:          uint64(b.offsets.Len()),
		ClassesSize:           uint64(b.classes.Len()),
		NumOfBits:             uint64(b.n),
		NumOfBlocks:           uint64(b.numBlocks),
		NumOfSuperblocks:      uint64(b.numSuper),
		SuperblockOffsetsSize: uint64(superOffsetsPacked.Len()),
		SuperblockRanksSize:   uint64(superRanksPacked.Len()),
		BlockSize:             uint64(b.blockSize),
		ClassBits:             uint64(b.classBits),
		LastBlockLen:          uint64(b.lastBlockLen),
		SuperblockOffsetsBits: uint64(superOffsetsBits),
		SuperblockRanksBits:   uint64(superRanksBits),
		SuperblockSize:        uint64(b.superSize),
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return 0, err
	}
	n := int64(13 * 8)

	for _, arr := range []*packedBits{b.offsets, b.classes, superOffsetsPacked, superRanksPacked} {
		written, err := writeWords(bw, arr)
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

func writeWords(w io.Writer, p *packedBits) (int64, error) {
	nWords := uint64((p.nbits + 63) / 64)
	if err := binary.Write(w, binary.LittleEndian, nWords); err != nil {
		return 0, err
	}
	if err := binary.Write(w, binary.LittleEndian, p.words); err != nil {
		return 8, err
	}
	return 8 + int64(len(p.words))*8, nil
}

func readWords(r io.Reader) (*packedBits, error) {
	var nWords uint64
	if err := binary.Read(r, binary.LittleEndian, &nWords); err != nil {
		return nil, err
	}
	words := make([]uint64, nWords)
	if nWords > 0 {
		if err := binary.Read(r, binary.LittleEndian, words); err != nil {
			return nil, err
		}
	}
	return &packedBits{words: words}, nil
}

func packFixedWidth(vals []int, width int) *packedBits {
	p := &packedBits{}
	for _, v := range vals {
		p.Append(uint64(v), width)
	}
	return p
}

func maxIntPlus1(vals []int) int {
	max := 0
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	return max + 1
}

// ReadFrom deserialises a Bitvector previously written by WriteTo.
func ReadFrom(r io.Reader) (*Bitvector, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("bitvec: read header: %w", err)
	}

	offsets, err := readWords(r)
	if err != nil {
		return nil, fmt.Errorf("bitvec: read offsets: %w", err)
	}
	offsets.nbits = int(h.COffsetsSize)

	classes, err := readWords(r)
	if err != nil {
		return nil, fmt.Errorf("bitvec: read classes: %w", err)
	}
	classes.nbits = int(h.ClassesSize)

	superOffsetsPacked, err := readWords(r)
	if err != nil {
		return nil, fmt.Errorf("bitvec: read superblock offsets: %w", err)
	}
	superOffsetsPacked.nbits = int(h.SuperblockOffsetsSize)

	superRanksPacked, err := readWords(r)
	if err != nil {
		return nil, fmt.Errorf("bitvec: read superblock ranks: %w", err)
	}
	superRanksPacked.nbits = int(h.SuperblockRanksSize)

	superOffsets := unpackFixedWidth(superOffsetsPacked, int(h.SuperblockOffsetsBits), int(h.NumOfSuperblocks))
	superRanks := unpackFixedWidth(superRanksPacked, int(h.SuperblockRanksBits), int(h.NumOfSuperblocks))

	bv := &Bitvector{
		n:            int(h.NumOfBits),
		blockSize:    int(h.BlockSize),
		superSize:    int(h.SuperblockSize),
		numBlocks:    int(h.NumOfBlocks),
		numSuper:     int(h.NumOfSuperblocks),
		classBits:    int(h.ClassBits),
		lastBlockLen: int(h.LastBlockLen),
		classes:      classes,
		offsets:      offsets,
		superOffsets: superOffsets,
		superRanks:   superRanks,
		tables:       buildClassTables(int(h.BlockSize)),
	}
	return bv, nil
}

func unpackFixedWidth(p *packedBits, width, count int) []int {
	out := make([]int, count)
	if width == 0 {
		return out
	}
	for i := range out {
		out[i] = int(p.Read(i*width, width))
	}
	return out
}

// Save writes b to path, truncating any existing file.
func Save(b *Bitvector, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = b.WriteTo(f)
	return err
}

// Load reads a Bitvector back from path using ordinary buffered I/O.
func Load(path string) (*Bitvector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(bufio.NewReader(f))
}

// LoadMmap memory-maps path read-only and decodes the mapping through
// ReadFrom, which copies every array into newly allocated slices; the
// returned Bitvector does not alias the mapping. The returned closer
// unmaps the file and closes it. Grounded on github.com/edsrzf/mmap-go,
// which the corpus carries (transitively, via kortschak-ins' on-disk
// k-mer store) for exactly this kind of read-only, positional file.
func LoadMmap(path string) (*Bitvector, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	bv, err := ReadFrom(bytes.NewReader(m))
	closer := func() error {
		err1 := m.Unmap()
		err2 := f.Close()
		if err1 != nil {
			return err1
		}
		return err2
	}
	if err != nil {
		closer()
		return nil, nil, err
	}
	return bv, closer, nil
}
