package gnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureChildrenAndParent(t *testing.T) {
	gene := NewFeature("chr1", Range{Start: 1, End: 1000}, "gene")
	mrna := NewFeature("chr1", Range{Start: 1, End: 1000}, "mRNA")
	exon1 := NewFeature("chr1", Range{Start: 1, End: 100}, "exon")
	exon2 := NewFeature("chr1", Range{Start: 900, End: 1000}, "exon")

	gene.AddChild(mrna)
	mrna.AddChild(exon1)
	mrna.AddChild(exon2)

	assert.Nil(t, gene.Parent())
	assert.Equal(t, gene, mrna.Parent())
	assert.Equal(t, mrna, exon1.Parent())
	assert.Equal(t, []*Feature{mrna}, gene.Children())
	assert.Equal(t, []*Feature{exon1, exon2}, mrna.Children())
}

func TestFeatureMultiGroup(t *testing.T) {
	rep := NewFeature("chr1", Range{Start: 1, End: 10}, "match_part")
	member := NewFeature("chr1", Range{Start: 20, End: 30}, "match_part")

	assert.False(t, member.IsMulti())
	member.MarkMulti("grp-1", rep)

	assert.True(t, member.IsMulti())
	assert.Equal(t, "grp-1", member.MultiGroupID())
	assert.Equal(t, rep, member.Representative())
}

func TestStrandString(t *testing.T) {
	assert.Equal(t, "+", StrandForward.String())
	assert.Equal(t, "-", StrandReverse.String())
	assert.Equal(t, ".", StrandNone.String())
	assert.Equal(t, ".", Strand(0).String())
}

func TestFeatureSeqidAndRangeMutation(t *testing.T) {
	f := NewFeature("chr1", Range{Start: 1, End: 10}, "gene")
	seqid, ok := f.Seqid()
	assert.True(t, ok)
	assert.Equal(t, "chr1", seqid)
	assert.Equal(t, "chr1", f.IDString())

	f.ChangeSeqid("chr2")
	seqid, _ = f.Seqid()
	assert.Equal(t, "chr2", seqid)

	f.SetRange(Range{Start: 5, End: 50})
	assert.Equal(t, Range{Start: 5, End: 50}, f.Range())
}
