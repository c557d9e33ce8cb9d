package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
)

// cacheTTL bounds how long a resolved credential may be served from cache.
const cacheTTL = 30 * time.Second

// cacheKeyPrefix namespaces credential entries in Redis.
const cacheKeyPrefix = "sgvr:credential:"

// CredentialCache is a read-through cache for token lookups. Only positive
// hits for active users are stored; misses and disabled accounts always go
// to the database, so deactivation takes effect within one TTL at most and
// negative probing gains nothing. Any cache fault degrades to a miss.
type CredentialCache struct {
	client *redis.Client
}

// NewCredentialCache connects a credential cache to the given Redis address.
// Returns nil when addr is empty, which disables caching entirely.
func NewCredentialCache(addr string) *CredentialCache {
	if addr == "" {
		return nil
	}
	return &CredentialCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Get returns the cached user for a token, or nil on miss or fault.
func (c *CredentialCache) Get(ctx context.Context, token string) *models.User {
	if c == nil || c.client == nil || token == "" {
		return nil
	}
	payload, errGet := c.client.Get(ctx, cacheKeyPrefix+token).Bytes()
	if errGet != nil {
		if errGet != redis.Nil {
			log.WithError(errGet).Debug("credential cache read failed")
		}
		return nil
	}
	var user models.User
	if errUnmarshal := json.Unmarshal(payload, &user); errUnmarshal != nil {
		log.WithError(errUnmarshal).Debug("credential cache entry malformed")
		return nil
	}
	if !user.IsActive() {
		return nil
	}
	return &user
}

// Set stores a resolved active user under its token.
func (c *CredentialCache) Set(ctx context.Context, token string, user *models.User) {
	if c == nil || c.client == nil || token == "" || user == nil || !user.IsActive() {
		return
	}
	payload, errMarshal := json.Marshal(user)
	if errMarshal != nil {
		return
	}
	if errSet := c.client.Set(ctx, cacheKeyPrefix+token, payload, cacheTTL).Err(); errSet != nil {
		log.WithError(errSet).Debug("credential cache write failed")
	}
}

// Invalidate drops the cache entries for the given tokens. Called on primary
// token rotation so the replaced token stops resolving immediately.
func (c *CredentialCache) Invalidate(ctx context.Context, tokens ...string) {
	if c == nil || c.client == nil {
		return
	}
	keys := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		keys = append(keys, cacheKeyPrefix+token)
	}
	if len(keys) == 0 {
		return
	}
	if errDel := c.client.Del(ctx, keys...).Err(); errDel != nil {
		log.WithError(errDel).Debug("credential cache invalidation failed")
	}
}
