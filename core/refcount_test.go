package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRCLifecycle(t *testing.T) {
	rc := NewRC()
	assert.Equal(t, int32(1), rc.Count())

	rc.Ref()
	assert.Equal(t, int32(2), rc.Count())

	assert.False(t, rc.Release())
	assert.True(t, rc.Release())
}

func TestRCUnderflowPanics(t *testing.T) {
	rc := NewRC()
	rc.Release()
	assert.Panics(t, func() { rc.Release() })
}

func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true, "fine") })
	assert.Panics(t, func() { Assert(false, "boom") })
}
