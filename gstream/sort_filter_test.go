package gstream

import (
	"testing"

	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s Stream) []gnode.Node {
	t.Helper()
	var out []gnode.Node
	for {
		n, err := s.Next()
		require.NoError(t, err)
		if n == nil {
			break
		}
		out = append(out, n)
	}
	return out
}

func TestSortStreamOrdersNodes(t *testing.T) {
	a := gnode.NewFeature("chr2", gnode.Range{Start: 1, End: 5}, "gene")
	b := gnode.NewFeature("chr1", gnode.Range{Start: 50, End: 60}, "gene")
	c := gnode.NewRegion("chr1", gnode.Range{Start: 1, End: 100})
	d := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 10}, "mRNA")

	src := newFakeNodeStream([]gnode.Node{a, b, c, d}, false, false)
	sorted := NewSortStream(src, false)

	out := drain(t, sorted)
	require.Len(t, out, 4)
	assert.Equal(t, gnode.KindRegion, out[0].Kind())
	assert.Equal(t, gnode.Range{Start: 1, End: 10}, out[1].Range())
	assert.Equal(t, gnode.Range{Start: 50, End: 60}, out[2].Range())
	assert.Equal(t, "chr2", out[3].IDString())
	assert.True(t, sorted.IsSorted())
}

func TestSelectStreamFiltersByRange(t *testing.T) {
	in := gnode.NewFeature("chr1", gnode.Range{Start: 1, End: 10}, "gene")
	out1 := gnode.NewFeature("chr1", gnode.Range{Start: 500, End: 600}, "gene")

	src := newFakeNodeStream([]gnode.Node{in, out1}, false, false)
	criteria := Criteria{OverlapRange: &gnode.Range{Start: 0, End: 50}}

	var dropped []gnode.Node
	sel := NewSelectStream(src, criteria, func(n gnode.Node) { dropped = append(dropped, n) }, false)

	kept := drain(t, sel)
	require.Len(t, kept, 1)
	assert.Equal(t, gnode.Range{Start: 1, End: 10}, kept[0].Range())
	require.Len(t, dropped, 1)
	assert.Equal(t, gnode.Range{Start: 500, End: 600}, dropped[0].Range())
}
