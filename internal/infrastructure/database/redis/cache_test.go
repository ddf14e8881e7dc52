package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

func newMockCache(t *testing.T) (*Cache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	client := &Client{rdb: db, logger: logging.NewNopLogger()}
	return NewCache(client, "patentlens:", logging.NewNopLogger()), mock
}

func TestCacheGetMiss(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectGet("patentlens:absent").RedisNil()

	var dest string
	err := cache.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	cache, mock := newMockCache(t)
	payload, _ := json.Marshal(map[string]int{"total": 3})

	mock.ExpectSet("patentlens:stats", payload, time.Minute).SetVal("OK")
	mock.ExpectGet("patentlens:stats").SetVal(string(payload))

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "stats", map[string]int{"total": 3}, time.Minute))

	var dest map[string]int
	require.NoError(t, cache.Get(ctx, "stats", &dest))
	assert.Equal(t, 3, dest["total"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDeleteByPrefix(t *testing.T) {
	cache, mock := newMockCache(t)

	mock.ExpectScan(0, "patentlens:patents:*", 100).
		SetVal([]string{"patentlens:patents:list:1", "patentlens:patents:stats:-"}, 0)
	mock.ExpectDel("patentlens:patents:list:1", "patentlens:patents:stats:-").SetVal(2)

	require.NoError(t, cache.DeleteByPrefix(context.Background(), "patents:"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheStoreFoundFlag(t *testing.T) {
	cache, mock := newMockCache(t)
	store := NewCacheStore(cache)
	ctx := context.Background()

	mock.ExpectGet("patentlens:k").RedisNil()
	var dest string
	found, err := store.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	payload, _ := json.Marshal("v")
	mock.ExpectGet("patentlens:k").SetVal(string(payload))
	found, err = store.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", dest)
}

func TestExportStatusStore(t *testing.T) {
	cache, mock := newMockCache(t)
	store := NewExportStatusStore(cache, time.Hour)
	ctx := context.Background()

	st := &export.Status{ID: "job-1", State: export.StatePending}
	payload, _ := json.Marshal(st)
	mock.ExpectSet("patentlens:export:status:job-1", payload, time.Hour).SetVal("OK")
	require.NoError(t, store.Set(ctx, st))

	mock.ExpectGet("patentlens:export:status:job-1").SetVal(string(payload))
	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, export.StatePending, got.State)

	mock.ExpectGet("patentlens:export:status:gone").RedisNil()
	_, err = store.Get(ctx, "gone")
	assert.True(t, errors.IsCode(err, errors.ErrCodeExportNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
