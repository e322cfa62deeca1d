package directoryredis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRedis implements the three commands the cache issues. Any other
// command panics on the nil embedded client.
type memRedis struct {
	redis.UniversalClient
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	deleted []string
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *memRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		m.deleted = append(m.deleted, k)
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type countingSource struct {
	calls    map[directory.Kind]int
	contacts []directory.Contact
	err      error
}

func (s *countingSource) Contacts(_ context.Context, kind directory.Kind) ([]directory.Contact, error) {
	if s.calls == nil {
		s.calls = map[directory.Kind]int{}
	}
	s.calls[kind]++
	return s.contacts, s.err
}

var rao = directory.Contact{Name: "Lt. Rao", Email: "rao@college.in", College: "Fergusson College"}

func TestMissThenHit(t *testing.T) {
	rdb := newMemRedis()
	src := &countingSource{contacts: []directory.Contact{rao}}
	cache := New(src, rdb, 5*time.Minute)
	ctx := context.Background()

	got, err := cache.Contacts(ctx, directory.KindANO)
	require.NoError(t, err)
	assert.Equal(t, []directory.Contact{rao}, got)
	assert.Equal(t, 5*time.Minute, rdb.ttls["directory:contacts:ano"])

	got, err = cache.Contacts(ctx, directory.KindANO)
	require.NoError(t, err)
	assert.Equal(t, []directory.Contact{rao}, got)
	assert.Equal(t, 1, src.calls[directory.KindANO], "second read is served from redis")
}

func TestKindsAreCachedSeparately(t *testing.T) {
	rdb := newMemRedis()
	src := &countingSource{contacts: []directory.Contact{rao}}
	cache := New(src, rdb, time.Minute)
	ctx := context.Background()

	_, err := cache.Contacts(ctx, directory.KindANO)
	require.NoError(t, err)
	_, err = cache.Contacts(ctx, directory.KindCadet)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls[directory.KindANO])
	assert.Equal(t, 1, src.calls[directory.KindCadet])
	assert.Len(t, rdb.data, 2)
}

func TestUnreadableEntryFallsBackToSource(t *testing.T) {
	rdb := newMemRedis()
	rdb.data["directory:contacts:ano"] = "{not json"
	src := &countingSource{contacts: []directory.Contact{rao}}
	cache := New(src, rdb, time.Minute)

	got, err := cache.Contacts(context.Background(), directory.KindANO)
	require.NoError(t, err)
	assert.Equal(t, []directory.Contact{rao}, got)
	assert.Equal(t, 1, src.calls[directory.KindANO])
	assert.NotEqual(t, "{not json", rdb.data["directory:contacts:ano"], "entry is rewritten")
}

func TestRedisFailureDoesNotFailRead(t *testing.T) {
	rdb := newMemRedis()
	rdb.getErr = errors.New("connection refused")
	src := &countingSource{contacts: []directory.Contact{rao}}
	cache := New(src, rdb, time.Minute)

	got, err := cache.Contacts(context.Background(), directory.KindANO)
	require.NoError(t, err)
	assert.Equal(t, []directory.Contact{rao}, got)
}

func TestSourceErrorIsNotCached(t *testing.T) {
	rdb := newMemRedis()
	boom := errors.New("sheet unavailable")
	cache := New(&countingSource{err: boom}, rdb, time.Minute)

	_, err := cache.Contacts(context.Background(), directory.KindANO)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rdb.data)
}

func TestInvalidateDropsEveryKind(t *testing.T) {
	rdb := newMemRedis()
	src := &countingSource{contacts: []directory.Contact{rao}}
	cache := New(src, rdb, time.Minute)
	ctx := context.Background()

	_, err := cache.Contacts(ctx, directory.KindANO)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))

	assert.ElementsMatch(t, []string{"directory:contacts:ano", "directory:contacts:cadet"}, rdb.deleted)
	assert.Empty(t, rdb.data)

	_, err = cache.Contacts(ctx, directory.KindANO)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls[directory.KindANO])
}
