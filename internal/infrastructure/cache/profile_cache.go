package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/pkg/helpers"
)

func profileKey(externalID string) string {
	return "user:profile:" + externalID
}

func generationKey(externalID string) string {
	return "user:profile:gen:" + externalID
}

// ProfileCache keeps the caller's own profile in Redis, keyed by the
// identity provider id, so the app's startup fetch skips Postgres.
//
// Every invalidation bumps a per-user generation counter. A reader takes the
// generation before going to Postgres and Set only writes when it is
// unchanged, so a profile read before a concurrent write is never cached.
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, externalID string) (*entity.User, bool, error) {
	var u entity.User
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, profileKey(externalID), &u)
	if err != nil || !ok {
		return nil, false, err
	}
	return &u, true, nil
}

func (c *ProfileCache) Generation(ctx context.Context, externalID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(externalID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SET only if the generation still matches ARGV[1]
var setIfGenerationScript = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

func (c *ProfileCache) Set(ctx context.Context, u *entity.User, gen int64) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	keys := []string{profileKey(u.ExternalID), generationKey(u.ExternalID)}
	return setIfGenerationScript.Run(ctx, c.rdb, keys, gen, b, c.ttl.Milliseconds()).Err()
}

func (c *ProfileCache) Invalidate(ctx context.Context, externalIDs ...string) error {
	// generation keys outlive any profile entry written under them
	genTTL := 4 * c.ttl
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range externalIDs {
			if id == "" {
				continue
			}
			p.Del(ctx, profileKey(id))
			p.Incr(ctx, generationKey(id))
			p.PExpire(ctx, generationKey(id), genTTL)
		}
		return nil
	})
	return err
}
