package bitvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackedBitsAppendReadRoundTrip(t *testing.T) {
	var p packedBits
	values := []struct {
		v     uint64
		width int
	}{
		{5, 3},
		{0, 1},
		{1, 1},
		{1000, 10},
		{0x1FFFFFFFF, 33},
	}
	positions := make([]int, len(values))
	for i, e := range values {
		positions[i] = p.Len()
		p.Append(e.v, e.width)
	}
	for i, e := range values {
		assert.Equal(t, e.v, p.Read(positions[i], e.width))
	}
}

func TestBitsFor(t *testing.T) {
	assert.Equal(t, 0, bitsFor(0))
	assert.Equal(t, 0, bitsFor(1))
	assert.Equal(t, 1, bitsFor(2))
	assert.Equal(t, 4, bitsFor(16))
	assert.Equal(t, 5, bitsFor(17))
}
