package bitvec

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassTablesEncodeDecodeRoundTrip(t *testing.T) {
	tbl := buildClassTables(6)
	for v := uint32(0); v < 1<<6; v++ {
		class, offset := tbl.encode(v)
		assert.Equal(t, bits.OnesCount32(v), class)
		assert.Equal(t, v, tbl.value(class, offset))
	}
}

func TestClassTablesOffsetWidthBoundsDecodeLen(t *testing.T) {
	tbl := buildClassTables(5)
	for class, entries := range tbl.decode {
		w := tbl.offsetWidth(class)
		if len(entries) <= 1 {
			assert.Equal(t, 0, w)
		} else {
			assert.GreaterOrEqual(t, 1<<uint(w), len(entries))
		}
	}
}
