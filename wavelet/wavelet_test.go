package wavelet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// symbol mapping for the worked example: A=0 C=1 G=2 T=3.
func encodeACGT(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		switch c {
		case 'A':
			out[i] = 0
		case 'C':
			out[i] = 1
		case 'G':
			out[i] = 2
		case 'T':
			out[i] = 3
		}
	}
	return out
}

func TestWaveletSpecWorkedExample(t *testing.T) {
	syms := encodeACGT("ACGTACGT")
	tr, err := Build(syms, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, tr.Len())

	sym, err := tr.Access(4)
	require.NoError(t, err)
	assert.Equal(t, byte(0), sym) // A

	rank, err := tr.Rank(7, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, rank) // T occurs twice in positions [0,7]

	pos, err := tr.Select(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, pos) // 2nd G is at index 6
}

func TestWaveletAccessMatchesSource(t *testing.T) {
	syms := encodeACGT("ACGTACGTACGTGGGGCCCCAAAATTTT")
	tr, err := Build(syms, 4)
	require.NoError(t, err)

	for i, want := range syms {
		got, err := tr.Access(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "position %d", i)
	}
}

func TestWaveletRankCountsPrefixOccurrences(t *testing.T) {
	syms := encodeACGT("ACGTACGTACGTGGGGCCCCAAAATTTT")
	tr, err := Build(syms, 4)
	require.NoError(t, err)

	for _, sym := range []byte{0, 1, 2, 3} {
		want := 0
		for i, s := range syms {
			if s == sym {
				want++
			}
			got, err := tr.Rank(i, sym)
			require.NoError(t, err)
			assert.Equal(t, want, got, "rank(%d,%d)", i, sym)
		}
	}

	r, err := tr.Rank(-1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, r)
}

func TestWaveletSelectInvertsRank(t *testing.T) {
	syms := encodeACGT("ACGTACGTACGTGGGGCCCCAAAATTTT")
	tr, err := Build(syms, 4)
	require.NoError(t, err)

	for _, sym := range []byte{0, 1, 2, 3} {
		var occurrences []int
		for i, s := range syms {
			if s == sym {
				occurrences = append(occurrences, i)
			}
		}
		for k, pos := range occurrences {
			got, err := tr.Select(k+1, sym)
			require.NoError(t, err)
			assert.Equal(t, pos, got, "select(%d,%d)", k+1, sym)
		}
	}
}

func TestWaveletOutOfRangeErrors(t *testing.T) {
	syms := encodeACGT("ACGT")
	tr, err := Build(syms, 4)
	require.NoError(t, err)

	_, err = tr.Access(-1)
	assert.Error(t, err)
	_, err = tr.Access(4)
	assert.Error(t, err)
	_, err = tr.Rank(0, 9)
	assert.Error(t, err)
	_, err = tr.Select(100, 0)
	assert.Error(t, err)
	_, err = tr.Select(0, 0)
	assert.Error(t, err)
}

func TestWaveletRejectsOutOfRangeSymbol(t *testing.T) {
	_, err := Build([]byte{0, 1, 5}, 4)
	assert.Error(t, err)
}

func TestWaveletSingleSymbolAlphabet(t *testing.T) {
	tr, err := Build([]byte{0, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())

	sym, err := tr.Access(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0), sym)

	r, err := tr.Rank(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, r)
}
