package oauth2client

import (
	"sync"
	"time"
)

// tokenCell holds the single live token. The scheduler is its only writer.
type tokenCell struct {
	mu         sync.RWMutex
	token      AccessToken
	acquiredAt time.Time
}

func newTokenCell(token AccessToken, acquiredAt time.Time) *tokenCell {
	return &tokenCell{token: token, acquiredAt: acquiredAt}
}

// current returns a copy of the live token.
func (c *tokenCell) current() AccessToken {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// snapshot returns the live token together with the time it was acquired.
func (c *tokenCell) snapshot() (AccessToken, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.acquiredAt
}

// replace swaps in a new token. Both fields change under one write lock.
func (c *tokenCell) replace(token AccessToken, acquiredAt time.Time) {
	c.mu.Lock()
	c.token = token
	c.acquiredAt = acquiredAt
	c.mu.Unlock()
}
