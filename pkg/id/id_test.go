package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	a := GenTraceID()
	assert.True(t, IsTraceID(a))
	assert.NotEqual(t, a, GenTraceID())
	assert.False(t, IsTraceID("not-a-uuid"))
}
