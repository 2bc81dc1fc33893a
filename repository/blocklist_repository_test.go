package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBlocklist(t *testing.T) (*BlocklistRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewBlocklistRepository(client), mr
}

func TestBlocklistRepository_RevokeAndIsRevoked(t *testing.T) {
	repo, mr := setupBlocklist(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "unknown jti must not be revoked")

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The marker carries the TTL the caller asked for.
	assert.Equal(t, time.Hour, mr.TTL("jti-1"))
}

func TestBlocklistRepository_Revoke_Idempotent(t *testing.T) {
	repo, mr := setupBlocklist(t)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-2", time.Hour))
	require.NoError(t, repo.Revoke(ctx, "jti-2", time.Hour))

	revoked, err := repo.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Hour, mr.TTL("jti-2"))
}

func TestBlocklistRepository_EntryExpires(t *testing.T) {
	repo, mr := setupBlocklist(t)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-3", time.Minute))

	mr.FastForward(time.Minute + time.Second)

	revoked, err := repo.IsRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked, "entry must vanish after its TTL")
}

func TestBlocklistRepository_StoreDown(t *testing.T) {
	repo, mr := setupBlocklist(t)
	ctx := context.Background()
	mr.Close()

	_, err := repo.IsRevoked(ctx, "jti-4")
	assert.Error(t, err, "a store outage must surface as an error, never as 'not revoked'")

	assert.Error(t, repo.Ping(ctx))
}

func TestBlocklistRepository_Ping(t *testing.T) {
	repo, _ := setupBlocklist(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
