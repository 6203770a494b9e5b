package gnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributesInsertionOrder(t *testing.T) {
	a := NewAttributes()
	a.Set("ID", NewScalarAttr("gene1"))
	a.Set("Name", NewScalarAttr("abc"))
	a.Set("Note", NewScalarAttr("x"))

	assert.Equal(t, []string{"ID", "Name", "Note"}, a.Keys())

	a.Set("Name", NewScalarAttr("xyz"))
	assert.Equal(t, []string{"ID", "Name", "Note"}, a.Keys())
	v, ok := a.Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "xyz", v.Scalar())

	a.Delete("Name")
	assert.Equal(t, []string{"ID", "Note"}, a.Keys())
	_, ok = a.Get("Name")
	assert.False(t, ok)
}

func TestAttributesFixedSemanticsHelpers(t *testing.T) {
	a := NewAttributes()
	a.SetID("mRNA1")
	id, ok := a.ID()
	assert.True(t, ok)
	assert.Equal(t, "mRNA1", id)

	a.Set("Parent", NewListAttr([]string{"gene1", "gene2"}))
	assert.Equal(t, []string{"gene1", "gene2"}, a.Parents())

	a.Set("Target", NewScalarAttr("EST23 1 200 +"))
	target, ok := a.Target()
	assert.True(t, ok)
	assert.Equal(t, "EST23 1 200 +", target)
}

func TestAttributesClone(t *testing.T) {
	a := NewAttributes()
	a.SetID("gene1")
	a.Set("Note", NewScalarAttr("original"))

	c := a.Clone()
	c.Set("Note", NewScalarAttr("changed"))

	orig, _ := a.Get("Note")
	cloned, _ := c.Get("Note")
	assert.Equal(t, "original", orig.Scalar())
	assert.Equal(t, "changed", cloned.Scalar())
}

func TestAttrValueScalarAndList(t *testing.T) {
	single := NewScalarAttr("x")
	assert.False(t, single.IsList())
	assert.Equal(t, "x", single.Scalar())

	multi := NewListAttr([]string{"a", "b", "c"})
	assert.True(t, multi.IsList())
	assert.Equal(t, "a", multi.Scalar())
	assert.Equal(t, []string{"a", "b", "c"}, multi.List())
}
