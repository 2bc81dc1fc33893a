package repository

import (
	"context"
	"fmt"
	"sentinel-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every blocklist call. A slow or unreachable store must
// surface as an error quickly; callers then fail closed instead of hanging.
const opTimeout = 2 * time.Second

// IBlocklistRepository defines the contract for the token revocation store.
// Keys are token jtis; an existing key means the token is revoked.
type IBlocklistRepository interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Ping(ctx context.Context) error
}

// BlocklistRepository implements IBlocklistRepository on Redis. It expects a
// client bound to the dedicated blocklist logical database.
type BlocklistRepository struct {
	client *redis.Client
}

func NewBlocklistRepository(client *redis.Client) *BlocklistRepository {
	return &BlocklistRepository{client: client}
}

// Revoke marks the jti as revoked for ttl. Entries expire on their own;
// revoking an already revoked jti just refreshes the marker.
func (r *BlocklistRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, jti, "", ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("jti", jti).Error("Failed to write revocation entry")
		return fmt.Errorf("redis set revocation: %w", err)
	}
	return nil
}

// IsRevoked reports whether the jti has a live revocation entry. Store
// errors are returned, never mapped to "not revoked".
func (r *BlocklistRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.client.Get(ctx, jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("jti", jti).Error("Failed to read revocation entry")
		return false, fmt.Errorf("redis get revocation: %w", err)
	}
	return true, nil
}

// Ping surfaces blocklist connectivity for the health endpoint.
func (r *BlocklistRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
