package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	s := "sanidad"
	p := To(s)
	assert.Equal(t, s, *p)
	assert.NotSame(t, &s, p)
}

func TestDeref(t *testing.T) {
	assert.Equal(t, 3, Deref(To(3), 7))
	assert.Equal(t, 7, Deref[int](nil, 7))
}
