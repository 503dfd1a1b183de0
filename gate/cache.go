package gate

import (
	"context"
	"sync"
)

type cacheKey struct{}

// abilityCache memoizes abilities for the lifetime of one request.
type abilityCache struct {
	mu        sync.RWMutex
	abilities map[any]*Ability
}

// WithAbilityCache returns a context carrying a fresh ability cache.
// Install it once per request; never share the context across requests.
func WithAbilityCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, cacheKey{}, &abilityCache{abilities: make(map[any]*Ability)})
}

func cacheFrom(ctx context.Context) *abilityCache {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(cacheKey{}).(*abilityCache)
	return c
}

func (c *abilityCache) get(user any) (*Ability, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ab, ok := c.abilities[user]
	return ab, ok
}

func (c *abilityCache) set(user any, ab *Ability) {
	c.mu.Lock()
	c.abilities[user] = ab
	c.mu.Unlock()
}
