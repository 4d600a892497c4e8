package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdapter(t *testing.T, prefix string) (*miniredis.Miniredis, RedisAdapter) {
	mr := miniredis.RunT(t)
	name := t.Name() + "-" + mr.Addr()
	adapter, err := NewRedisAdapter(name, prefix, Config{Addr: mr.Addr()}.Options())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(name) })
	return mr, adapter
}

func TestNewRedisAdapter_ReusesConnectionByName(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := Config{Addr: mr.Addr()}.Options()

	first, err := NewRedisAdapter("reuse", "", opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close("reuse") })

	second, err := NewRedisAdapter("reuse", "other:", opts)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetRedis("reuse"))
}

func TestNewRedisAdapter_Unreachable(t *testing.T) {
	_, err := NewRedisAdapter("down", "", &Options{Addrs: []string{"127.0.0.1:1"}, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}

func TestAdapter_KeysArePrefixed(t *testing.T) {
	mr, adapter := setupAdapter(t, "site:")
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "contact:1", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("site:contact:1"))

	ok, err := adapter.SetNX(ctx, "contact:1", []byte("w"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := adapter.Get(ctx, "contact:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, adapter.Del(ctx, "contact:1"))
	n, err := adapter.Exist(ctx, "contact:1")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = adapter.Get(ctx, "contact:1")
	assert.ErrorIs(t, err, NilError)
}

func TestAdapter_StreamRoundTrip(t *testing.T) {
	_, adapter := setupAdapter(t, "")
	ctx := context.Background()

	require.NoError(t, adapter.XGroupCreateMkStream(ctx, "notify", "g", "0"))
	_, err := adapter.XAdd(ctx, "notify", map[string]interface{}{"data": "hello"})
	require.NoError(t, err)

	msgs, err := adapter.XReadGroup(ctx, "g", "c1", "notify", ">", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Values["data"])

	pending, err := adapter.XPending(ctx, "notify", "g")
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	require.NoError(t, adapter.XAck(ctx, "notify", "g", msgs[0].ID))
	pending, err = adapter.XPending(ctx, "notify", "g")
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	_, err = adapter.XReadGroup(ctx, "g", "c1", "notify", ">", 10)
	assert.ErrorIs(t, err, NilError)
}
