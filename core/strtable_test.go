package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringTableInterning(t *testing.T) {
	st := NewStringTable()
	a := st.Intern("chr1")
	b := st.Intern("chr1")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, st.Len())

	st.Intern("chr2")
	assert.Equal(t, 2, st.Len())
}
