package gstream

import (
	"testing"

	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/internal/encseq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferStreamRecordsThenReplaysFIFO(t *testing.T) {
	a := gnode.NewRegion("chr1", gnode.Range{Start: 1, End: 10})
	b := gnode.NewRegion("chr1", gnode.Range{Start: 20, End: 30})
	src := newFakeNodeStream([]gnode.Node{a, b}, true, false)

	buf := NewBufferStream(src, false)
	first, err := buf.Next()
	require.NoError(t, err)
	assert.Same(t, a, first)

	buf.StartDequeue()
	replayed := drain(t, buf)
	require.Len(t, replayed, 1)
	assert.Same(t, a, replayed[0])
}

func TestMultiSanitiserStreamMarksSharedRepresentative(t *testing.T) {
	f1 := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 10}, "CDS")
	f1.Attrs.SetID("cds1")
	f2 := gnode.NewFeature("chr1", gnode.Range{Start: 20, End: 30}, "CDS")
	f2.Attrs.SetID("cds1")

	src := newFakeNodeStream([]gnode.Node{f1, f2}, false, false)
	s := NewMultiSanitiserStream(src, false)
	out := drain(t, s)
	require.Len(t, out, 2)

	a := out[0].(*gnode.Feature)
	b := out[1].(*gnode.Feature)
	assert.True(t, a.IsMulti())
	assert.True(t, b.IsMulti())
	assert.Same(t, a, a.Representative())
	assert.Same(t, a, b.Representative())
}

func TestSequenceNodeAddStreamSynthesizesTrailingSequences(t *testing.T) {
	seqs := encseq.NewMemProvider(map[string][]byte{"chr1": []byte("ACGTACGTAC")})
	f := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 5}, "gene")

	src := newFakeNodeStream([]gnode.Node{f}, false, false)
	s := NewSequenceNodeAddStream(src, seqs, false)
	out := drain(t, s)

	require.Len(t, out, 2)
	assert.Equal(t, gnode.KindFeature, out[0].Kind())
	seq, ok := gnode.TryAs[*gnode.Sequence](out[1])
	require.True(t, ok)
	assert.Equal(t, "ACGTACGTAC", seq.Bases)
}

func TestSequenceNodeOutStreamEmitsTrailingSequenceForMatchingType(t *testing.T) {
	seqs := encseq.NewMemProvider(map[string][]byte{"chr1": []byte("ACGTACGTAC")})
	gene := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 4}, "gene")
	mRNA := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 4}, "mRNA")

	src := newFakeNodeStream([]gnode.Node{gene, mRNA}, false, false)
	s := NewSequenceNodeOutStream(src, "mRNA", seqs, false)
	out := drain(t, s)

	require.Len(t, out, 3)
	assert.Equal(t, "gene", out[0].(*gnode.Feature).Type)
	assert.Equal(t, "mRNA", out[1].(*gnode.Feature).Type)
	seq, ok := gnode.TryAs[*gnode.Sequence](out[2])
	require.True(t, ok)
	assert.Equal(t, "ACGT", seq.Bases)
}

func TestInterFeatureStreamGeneralizesAddIntrons(t *testing.T) {
	mRNA := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 1000}, "mRNA")
	e1 := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 100}, "exon")
	e2 := gnode.NewFeature("chr1", gnode.Range{Start: 201, End: 300}, "exon")
	mRNA.AddChild(e1)
	mRNA.AddChild(e2)

	src := newFakeNodeStream([]gnode.Node{mRNA}, false, false)
	s := NewInterFeatureStream(src, "exon", "intron", false)
	out := drain(t, s)
	require.Len(t, out, 1)

	f := out[0].(*gnode.Feature)
	var introns []*gnode.Feature
	for _, c := range f.Children() {
		if c.Type == "intron" {
			introns = append(introns, c)
		}
	}
	require.Len(t, introns, 1)
	assert.Equal(t, gnode.Range{Start: 101, End: 200}, introns[0].Range())
}

func TestChseqidsStreamRenamesAndResortsRequiresSortedUpstream(t *testing.T) {
	a := gnode.NewFeature("chr1", gnode.Range{Start: 50, End: 60}, "gene")
	b := gnode.NewFeature("chr2", gnode.Range{Start: 1, End: 10}, "gene")

	src := newFakeNodeStream([]gnode.Node{a, b}, true, false)
	s := NewChseqidsStream(src, map[string]string{"chr2": "chr0"}, false)
	out := drain(t, s)
	require.Len(t, out, 2)

	seqid0, _ := out[0].Seqid()
	seqid1, _ := out[1].Seqid()
	assert.Equal(t, "chr0", seqid0)
	assert.Equal(t, "chr1", seqid1)
}

func TestArrayOutStreamCollectsFeaturesOnly(t *testing.T) {
	r := gnode.NewRegion("chr1", gnode.Range{Start: 1, End: 100})
	f := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 10}, "gene")

	src := newFakeNodeStream([]gnode.Node{r, f}, false, false)
	var sink []gnode.Node
	s := NewArrayOutStream(src, &sink, true, false)
	out := drain(t, s)

	require.Len(t, out, 2)
	require.Len(t, sink, 1)
	assert.Equal(t, gnode.KindFeature, sink[0].Kind())
	for _, n := range sink {
		n.Release()
	}
}

func TestSpliceSiteInfoStreamScoresCanonicalDonorAcceptor(t *testing.T) {
	bases := "AA" + "GT" + "AAAA" + "AG" + "AA"
	seqs := encseq.NewMemProvider(map[string][]byte{"chr1": []byte(bases)})

	mRNA := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: len(bases)}, "mRNA")
	intron := gnode.NewFeature("chr1", gnode.Range{Start: 3, End: 10}, "intron")
	mRNA.AddChild(intron)

	src := newFakeNodeStream([]gnode.Node{mRNA}, false, false)
	s := NewSpliceSiteInfoStream(src, seqs, false)
	out := drain(t, s)
	require.Len(t, out, 1)

	f := out[0].(*gnode.Feature)
	avg, ok := averageSpliceProbability(f)
	require.True(t, ok)
	assert.InDelta(t, 1.0, avg, 0.001)
}
