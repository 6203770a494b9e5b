package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrMap(t *testing.T) {
	m := NewStrMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestUint64MapGrows(t *testing.T) {
	m := NewUint64Map[string](4)
	for i := uint64(0); i < 100; i++ {
		m.Set(i, fmt.Sprintf("v%d", i))
	}
	assert.Equal(t, 100, m.Len())
	for i := uint64(0); i < 100; i++ {
		v, ok := m.Get(i)
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("v%d", i), v)
	}
	_, ok := m.Get(12345)
	assert.False(t, ok)
}

func TestUint64MapOverwrite(t *testing.T) {
	m := NewUint64Map[int](8)
	m.Set(7, 1)
	m.Set(7, 2)
	assert.Equal(t, 1, m.Len())
	v, _ := m.Get(7)
	assert.Equal(t, 2, v)
}
