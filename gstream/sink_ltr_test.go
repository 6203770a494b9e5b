package gstream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ncbi-tools/genomeflow/internal/encseq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLTRHarvestTableFormatsFixedColumns(t *testing.T) {
	elems := []LTRElement{
		{SeqNr: 0, RetStart: 100, RetEnd: 500, LeftLTRStart: 100, LeftLTREnd: 150, RightLTRStart: 450, RightLTREnd: 500, SimilarityPct: 97.5},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteLTRHarvestTable(&buf, elems, false))

	out := buf.String()
	assert.Contains(t, out, "# s(ret) e(ret) l(ret)")
	assert.Contains(t, out, "100 500 401 100 150 51 450 500 51 97.50 0")
}

func TestWriteLTRHarvestTableLongModeAddsTSDColumns(t *testing.T) {
	elems := []LTRElement{
		{RetStart: 1, RetEnd: 10, LeftLTRStart: 1, LeftLTREnd: 2, RightLTRStart: 9, RightLTREnd: 10, HasTSD: true,
			TSDLeftStart: 1, TSDLeftEnd: 5, MotifLeft: "TG", MotifRight: "CA"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteLTRHarvestTable(&buf, elems, true))
	assert.Contains(t, buf.String(), "TG/CA")
}

func TestWriteLTRDigestTableEmitsEmptyCellsForMissingFields(t *testing.T) {
	elems := []LTRElement{{SeqNr: 1, RetStart: 10, RetEnd: 20}}
	var buf bytes.Buffer
	require.NoError(t, WriteLTRDigestTable(&buf, elems))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	header := strings.Split(lines[0], "\t")
	row := strings.Split(lines[1], "\t")
	require.Equal(t, len(header), len(row))
	assert.Equal(t, "seq-nr", header[0])
	assert.Equal(t, []string{"1", "10", "20", "11", "0", "0", "0", "0"}, row[:8])
	for _, cell := range row[8:] {
		assert.Empty(t, cell)
	}
}

func TestWriteElementFastaWrapsSequence(t *testing.T) {
	seqs := encseq.NewMemProvider(map[string][]byte{"chr 1": []byte("ACGTACGTACGTACGTACGT")})
	var buf bytes.Buffer
	require.NoError(t, WriteElementFasta(&buf, "chr 1", 1, 20, seqs, 0, 10))

	out := buf.String()
	assert.Contains(t, out, ">chr_1_1_20\n")
	assert.Contains(t, out, "ACGTACGTAC\nGTACGTACGT\n")
}
