package gstream

import (
	"testing"

	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGFF3ReaderLinksParentChainIntoTree(t *testing.T) {
	path := writeTempGFF3(t, sampleGFF3)

	s, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{})
	require.NoError(t, err)
	defer s.Close()

	out := drain(t, s)
	var top []*gnode.Feature
	for _, n := range out {
		if f, ok := n.(*gnode.Feature); ok {
			top = append(top, f)
		}
	}
	require.Len(t, top, 1, "mRNA and both exons must nest under gene1, not surface as top-level nodes")

	gene := top[0]
	assert.Equal(t, "gene", gene.Type)
	require.Len(t, gene.Children(), 1)

	mrna := gene.Children()[0]
	assert.Equal(t, "mRNA", mrna.Type)
	require.Len(t, mrna.Children(), 2)
	assert.Equal(t, "exon", mrna.Children()[0].Type)
	assert.Equal(t, "exon", mrna.Children()[1].Type)
}

func TestGFF3ReaderRecordGroupTerminatorSeparatesTrees(t *testing.T) {
	contents := "chr1\ttest\tgene\t1\t500\t.\t+\t.\tID=gene1\n" +
		"chr1\ttest\tmRNA\t1\t500\t.\t+\t.\tID=mrna1;Parent=gene1\n" +
		"###\n" +
		"chr1\ttest\tgene\t600\t900\t.\t+\t.\tID=gene2\n" +
		"chr1\ttest\tmRNA\t600\t900\t.\t+\t.\tID=mrna2;Parent=gene2\n"
	path := writeTempGFF3(t, contents)

	s, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{})
	require.NoError(t, err)
	defer s.Close()

	out := drain(t, s)
	require.Len(t, out, 2)
	g1 := out[0].(*gnode.Feature)
	g2 := out[1].(*gnode.Feature)
	require.Len(t, g1.Children(), 1)
	require.Len(t, g2.Children(), 1)
	assert.Equal(t, "mrna1", func() string { id, _ := g1.Children()[0].Attrs.ID(); return id }())
	assert.Equal(t, "mrna2", func() string { id, _ := g2.Children()[0].Attrs.ID(); return id }())
}

func TestGFF3ReaderMultipleParentsAttachUnderEachAncestor(t *testing.T) {
	contents := "chr1\ttest\tgene\t1\t500\t.\t+\t.\tID=gene1\n" +
		"chr1\ttest\tgene\t1\t500\t.\t+\t.\tID=gene2\n" +
		"chr1\ttest\texon\t100\t200\t.\t+\t.\tID=shared;Parent=gene1,gene2\n"
	path := writeTempGFF3(t, contents)

	s, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{})
	require.NoError(t, err)
	defer s.Close()

	out := drain(t, s)
	require.Len(t, out, 2)
	g1 := out[0].(*gnode.Feature)
	g2 := out[1].(*gnode.Feature)
	require.Len(t, g1.Children(), 1)
	require.Len(t, g2.Children(), 1)
	assert.Equal(t, "exon", g1.Children()[0].Type)
	assert.Equal(t, "exon", g2.Children()[0].Type)
}

func TestGFF3ReaderUnknownParentWarnsByDefaultAndSurfacesAsTopLevel(t *testing.T) {
	contents := "chr1\ttest\texon\t100\t200\t.\t+\t.\tID=orphan;Parent=missing\n"
	path := writeTempGFF3(t, contents)

	s, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{})
	require.NoError(t, err)
	defer s.Close()

	out := drain(t, s)
	require.Len(t, out, 1)
	f := out[0].(*gnode.Feature)
	id, _ := f.Attrs.ID()
	assert.Equal(t, "orphan", id)
}

func TestGFF3ReaderUnknownParentFailsInStrictMode(t *testing.T) {
	contents := "chr1\ttest\texon\t100\t200\t.\t+\t.\tID=orphan;Parent=missing\n"
	path := writeTempGFF3(t, contents)

	s, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{Strict: true})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Next()
	assert.ErrorContains(t, err, "unknown Parent")
}

func TestAddIntronsExercisesRealGFF3ParentChain(t *testing.T) {
	contents := "chr1\ttest\tmRNA\t1\t500\t.\t+\t.\tID=mrna1\n" +
		"chr1\ttest\texon\t1\t100\t.\t+\t.\tID=exon1;Parent=mrna1\n" +
		"chr1\ttest\texon\t200\t300\t.\t+\t.\tID=exon2;Parent=mrna1\n"
	path := writeTempGFF3(t, contents)

	reader, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{})
	require.NoError(t, err)
	s := NewAddIntronsStream(reader, false)
	defer s.Close()

	out := drain(t, s)
	require.Len(t, out, 1)
	mrna := out[0].(*gnode.Feature)

	var introns int
	for _, c := range mrna.Children() {
		if c.Type == "intron" {
			introns++
			assert.Equal(t, gnode.Range{Start: 101, End: 199}, c.Range())
		}
	}
	assert.Equal(t, 1, introns, "add-introns must see the real exon children built by the GFF3 reader")
}
