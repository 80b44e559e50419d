package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GoogleTokenCache keeps short-lived Google access tokens for accounts that
// signed in through OAuth. The notification path uses a cached token to tag
// outbound mail with the user's Google identity instead of re-fetching
// credentials per send. Entries expire with the token.
type GoogleTokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGoogleTokenCache constructs the cache.
func NewGoogleTokenCache(client *redis.Client, ttl time.Duration) *GoogleTokenCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &GoogleTokenCache{client: client, ttl: ttl}
}

func tokenKey(userID int64) string {
	return fmt.Sprintf("google_token:%d", userID)
}

// Put stores an access token for the user.
func (c *GoogleTokenCache) Put(ctx context.Context, userID int64, accessToken string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, tokenKey(userID), accessToken, c.ttl).Err()
}

// Get returns the cached token, or "" when absent or expired.
func (c *GoogleTokenCache) Get(ctx context.Context, userID int64) string {
	if c == nil || c.client == nil {
		return ""
	}
	val, err := c.client.Get(ctx, tokenKey(userID)).Result()
	if err != nil {
		return ""
	}
	return val
}
