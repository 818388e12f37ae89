package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTokenizer struct{ calls int }

func (c *countingTokenizer) Encode(text string) []string {
	c.calls++
	return strings.SplitAfter(text, " ")
}

func (c *countingTokenizer) Decode(tokens []string) string { return strings.Join(tokens, "") }

func (c *countingTokenizer) Name() string { return "counting" }

func TestTokenCache_LRU(t *testing.T) {
	c := NewTokenCache(2)
	c.Put("tok", "a", []string{"a"})
	c.Put("tok", "b", []string{"b"})

	_, ok := c.Get("tok", "a")
	require.True(t, ok)

	// b is now least recently used
	c.Put("tok", "c", []string{"c"})
	assert.Equal(t, 2, c.Size())

	_, ok = c.Get("tok", "b")
	assert.False(t, ok)
	_, ok = c.Get("tok", "a")
	assert.True(t, ok)
	_, ok = c.Get("tok", "c")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestTokenCache_KeyIncludesTokenizer(t *testing.T) {
	c := NewTokenCache(10)
	c.Put("one", "text", []string{"te", "xt"})

	_, ok := c.Get("two", "text")
	assert.False(t, ok)
}

func TestTokenCache_ReturnsCopies(t *testing.T) {
	c := NewTokenCache(10)
	c.Put("tok", "x y", []string{"x ", "y"})

	got, _ := c.Get("tok", "x y")
	got[0] = "changed"

	again, _ := c.Get("tok", "x y")
	assert.Equal(t, []string{"x ", "y"}, again)
}

func TestCachedTokenizer(t *testing.T) {
	inner := &countingTokenizer{}
	tok := NewCachedTokenizer(inner, NewTokenCache(10))

	first := tok.Encode("one two three")
	second := tok.Encode("one two three")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "one two three", tok.Decode(second))
	assert.Equal(t, "counting", tok.Name())
	assert.InDelta(t, 0.5, tok.cache.HitRate(), 1e-9)
}
