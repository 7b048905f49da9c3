package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateETag(t *testing.T) {
	a := GenerateETag([]byte(`{"id":"1"}`))
	assert.Equal(t, a, GenerateETag(`{"id":"1"}`))
	assert.NotEqual(t, a, GenerateETag(`{"id":"2"}`))
	assert.Regexp(t, `^"[0-9a-f]{40}"$`, a)

	assert.Equal(t, GenerateETag(map[string]int{"a": 1}), GenerateETag(`{"a":1}`))
}

func TestETagMatches(t *testing.T) {
	tag := GenerateETag("body")

	assert.True(t, ETagMatches(tag, tag))
	assert.True(t, ETagMatches("*", tag))
	assert.True(t, ETagMatches(`"other", `+tag, tag))
	assert.True(t, ETagMatches("W/"+tag, tag))
	assert.False(t, ETagMatches("", tag))
	assert.False(t, ETagMatches(`"other"`, tag))
}
