package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"textsplit/internal/port"
)

// TokenCache keeps the token sequences of recently encoded texts, evicting
// the least recently used entry once maxSize is reached.
type TokenCache struct {
	cache  *lru.Cache[string, []string]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewTokenCache(maxSize int) *TokenCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	cache, err := lru.New[string, []string](maxSize)
	if err != nil {
		// only fails for a non-positive size
		cache, _ = lru.New[string, []string](100)
	}
	return &TokenCache{cache: cache}
}

func cacheKey(tokenizer, text string) string {
	h := sha256.New()
	h.Write([]byte(tokenizer))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Get returns a copy of the cached tokens so callers cannot alter the entry.
func (c *TokenCache) Get(tokenizer, text string) ([]string, bool) {
	tokens, ok := c.cache.Get(cacheKey(tokenizer, text))
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return slices.Clone(tokens), true
}

func (c *TokenCache) Put(tokenizer, text string, tokens []string) {
	c.cache.Add(cacheKey(tokenizer, text), slices.Clone(tokens))
}

func (c *TokenCache) Clear() {
	c.cache.Purge()
}

func (c *TokenCache) Size() int {
	return c.cache.Len()
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (c *TokenCache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// CachedTokenizer serves Encode from a TokenCache.
type CachedTokenizer struct {
	tokenizer port.Tokenizer
	cache     *TokenCache
}

var _ port.Tokenizer = (*CachedTokenizer)(nil)

func NewCachedTokenizer(tokenizer port.Tokenizer, cache *TokenCache) *CachedTokenizer {
	return &CachedTokenizer{
		tokenizer: tokenizer,
		cache:     cache,
	}
}

func (t *CachedTokenizer) Encode(text string) []string {
	name := t.tokenizer.Name()
	if tokens, hit := t.cache.Get(name, text); hit {
		return tokens
	}

	tokens := t.tokenizer.Encode(text)
	t.cache.Put(name, text, tokens)
	return tokens
}

func (t *CachedTokenizer) Decode(tokens []string) string {
	return t.tokenizer.Decode(tokens)
}

func (t *CachedTokenizer) Cache() *TokenCache {
	return t.cache
}

func (t *CachedTokenizer) Name() string {
	return t.tokenizer.Name()
}
