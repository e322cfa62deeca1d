// Package directoryredis caches directory reads in redis.
package directoryredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "directory"

// CachedSource serves contacts from redis and falls back to the wrapped
// source on a miss. Redis failures never fail a read.
type CachedSource struct {
	next   directory.Source
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

var (
	_ directory.Source      = (*CachedSource)(nil)
	_ directory.Invalidator = (*CachedSource)(nil)
)

func New(next directory.Source, rdb redis.UniversalClient, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

func (c *CachedSource) key(kind directory.Kind) string {
	return c.prefix + ":contacts:" + string(kind)
}

func (c *CachedSource) Contacts(ctx context.Context, kind directory.Kind) ([]directory.Contact, error) {
	key := c.key(kind)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var contacts []directory.Contact
		if jerr := json.Unmarshal(raw, &contacts); jerr == nil {
			return contacts, nil
		}
		logx.WithField("key", key).Warn("Discarding unreadable directory cache entry")
	case !errors.Is(err, redis.Nil):
		logx.WithError(err).Warn("Directory cache read failed")
	}

	contacts, err := c.next.Contacts(ctx, kind)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(contacts); jerr == nil {
		if serr := c.rdb.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			logx.WithError(serr).Warn("Directory cache write failed")
		}
	}
	return contacts, nil
}

// Invalidate drops the cached contacts of every kind
func (c *CachedSource) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key(directory.KindANO), c.key(directory.KindCadet)).Err()
}
