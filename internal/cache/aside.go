package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix   = "profile:user:%d"
	rateLimitKeyPrefix = "rl:%s:%s"
)

const ProfileTTL = 5 * time.Minute

// ProfileKey caches the public profile of an account.
func ProfileKey(userID uint) string {
	return fmt.Sprintf(profileKeyPrefix, userID)
}

// RateLimitKey is the counter key for one resource and caller.
func RateLimitKey(resource, id string) string {
	return fmt.Sprintf(rateLimitKeyPrefix, resource, id)
}

// Aside fills dest from key when cached; otherwise it runs load (which must
// populate dest) and stores the result for ttl. Redis failures fall through to
// load, and load errors are never cached.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return load()
	}

	if err := load(); err != nil {
		return err
	}
	if data, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}

// Invalidate drops key; a nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateProfile drops the cached profile of userID.
func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}
