package gff3lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) ([]Record, *ErrBox) {
	t.Helper()
	ch, eb := Open("test.gff3", strings.NewReader(input))
	var recs []Record
	for r := range ch {
		recs = append(recs, r)
	}
	return recs, eb
}

func TestOpenTokenizesDirectivesCommentsAndFeatureLines(t *testing.T) {
	input := "##gff-version 3\n" +
		"##sequence-region chr1 1 1000\n" +
		"# a comment\n" +
		"\n" +
		"chr1\ttest\tgene\t1\t500\t.\t+\t.\tID=gene1\n"

	recs, eb := collect(t, input)
	require.NoError(t, eb.Err())
	require.Len(t, recs, 5)

	assert.Equal(t, KindOtherDirective, recs[0].Kind)
	assert.Equal(t, "gff-version", recs[0].Directive)
	assert.Equal(t, "3", recs[0].Payload)

	assert.Equal(t, KindRegionDirective, recs[1].Kind)
	assert.Equal(t, "chr1", recs[1].RegionSeqid)
	assert.Equal(t, 1, recs[1].RegionStart)
	assert.Equal(t, 1000, recs[1].RegionEnd)

	assert.Equal(t, KindComment, recs[2].Kind)
	assert.Equal(t, KindBlank, recs[3].Kind)

	assert.Equal(t, KindFeatureLine, recs[4].Kind)
	assert.Equal(t, "chr1", recs[4].Seqid)
	assert.Equal(t, "gene", recs[4].Type)
	assert.Equal(t, 1, recs[4].Start)
	assert.Equal(t, 500, recs[4].End)
	assert.Equal(t, "ID=gene1", recs[4].Attributes)
}

func TestOpenSwitchesToSequenceModeAfterFastaDirective(t *testing.T) {
	input := "##FASTA\n>chr1\nACGTACGT\nACGT\n"
	recs, eb := collect(t, input)
	require.NoError(t, eb.Err())
	require.Len(t, recs, 4)

	assert.Equal(t, KindFastaDirective, recs[0].Kind)
	assert.Equal(t, KindSequenceHeader, recs[1].Kind)
	assert.Equal(t, "chr1", recs[1].SeqHeader)
	assert.Equal(t, KindSequenceBody, recs[2].Kind)
	assert.Equal(t, "ACGTACGT", recs[2].SeqBody)
	assert.Equal(t, KindSequenceBody, recs[3].Kind)
}

func TestOpenReportsMalformedFeatureLine(t *testing.T) {
	input := "chr1\ttest\tgene\t1\t500\n"
	_, eb := collect(t, input)
	assert.Error(t, eb.Err())
	assert.Contains(t, eb.Err().Error(), "expected 9 tab-separated columns")
}

func TestOpenReportsBadStartCoordinate(t *testing.T) {
	input := "chr1\ttest\tgene\tNOTANUM\t500\t.\t+\t.\tID=gene1\n"
	_, eb := collect(t, input)
	assert.Error(t, eb.Err())
	assert.Contains(t, eb.Err().Error(), "bad start coordinate")
}

func TestOpenReportsMalformedRegionDirective(t *testing.T) {
	input := "##sequence-region chr1\n"
	_, eb := collect(t, input)
	assert.Error(t, eb.Err())
	assert.Contains(t, eb.Err().Error(), "malformed ##sequence-region")
}
