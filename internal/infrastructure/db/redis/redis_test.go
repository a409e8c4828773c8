package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions(t *testing.T) {
	opts, err := Config{Addr: "cache:6379", Password: "s3cret", DB: 2}.options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = Config{Addr: "redis://:pw@cache:6380/3", DB: 9}.options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = Config{Addr: "redis://cache:6379/notadb"}.options()
	assert.Error(t, err)
}

// TestIdempotencyStore runs against a real server when REDIS_TEST_ADDR is set.
func TestIdempotencyStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	store := NewIdempotencyStore(client)
	user := "user-" + t.Name()
	t.Cleanup(func() { client.Del(context.Background(), store.key(user, "k1")) })

	_, found, err := store.Lookup(ctx, user, "k1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Remember(ctx, user, "k1", "eng-1"))
	require.NoError(t, store.Remember(ctx, user, "k1", "eng-2"))

	id, found, err := store.Lookup(ctx, user, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "eng-1", id)

	_, found, err = store.Lookup(ctx, "someone-else", "k1")
	require.NoError(t, err)
	assert.False(t, found)
}
