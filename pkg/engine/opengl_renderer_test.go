package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstMissIsPerProgram(t *testing.T) {
	r := &OpenGLRenderer{missing: make(map[uniformKey]bool)}

	assert.True(t, r.firstMiss(1, "uTime"))
	assert.False(t, r.firstMiss(1, "uTime"), "reported once per program")
	assert.True(t, r.firstMiss(2, "uTime"), "another program still reports")
	assert.True(t, r.firstMiss(1, "uRadius"))
}
