package dex

import (
	"strings"
	"sync"
)

// SailorToken is one entry of the token lookup, used to resolve symbol
// and decimals for pools that reference tokens only by address.
type SailorToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
	USDPrice string `json:"usd_price,omitempty"`
}

// TokenCache maps lowercased token addresses to metadata. It is built
// lazily on first use and append-only for the process lifetime; stale
// entries from upstream metadata changes are an accepted staleness
// window. An explicit component rather than a package-level singleton so
// adapters can be tested in isolation.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]SailorToken
	loaded bool
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: make(map[string]SailorToken)}
}

// Loaded reports whether the first population has happened.
func (c *TokenCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Put stores a token, marking the cache loaded.
func (c *TokenCache) Put(token SailorToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[strings.ToLower(token.Address)] = token
	c.loaded = true
}

// MarkLoaded records that population ran even if it yielded no tokens.
func (c *TokenCache) MarkLoaded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
}

// Get looks up a token by address, case-insensitively.
func (c *TokenCache) Get(address string) (SailorToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.tokens[strings.ToLower(address)]
	return token, ok
}

// Len returns the number of cached tokens.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}
