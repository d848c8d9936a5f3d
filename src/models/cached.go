package models

import (
	"context"
	"time"

	"github.com/Protocol-Lattice/chat-agent/src/cache"
)

// CachedLLM wraps an Agent and memoises completions by prompt hash.
// Failed completions are never cached.
type CachedLLM struct {
	Agent Agent
	Cache *cache.LRU[string]
}

func NewCachedLLM(agent Agent, size int, ttl time.Duration) *CachedLLM {
	return &CachedLLM{
		Agent: agent,
		Cache: cache.NewLRU[string](size, ttl),
	}
}

func (c *CachedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	key := cache.HashKey(prompt)
	if val, ok := c.Cache.Get(key); ok {
		return val, nil
	}

	res, err := c.Agent.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.Cache.Set(key, res)
	return res, nil
}

var _ Agent = (*CachedLLM)(nil)
