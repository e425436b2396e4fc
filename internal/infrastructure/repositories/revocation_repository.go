package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/coursegate/domain"
)

// RevocationRepositoryImpl implements domain.RevocationStore using Redis.
// Entries expire together with the credential they block, so the set stays small.
type RevocationRepositoryImpl struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRevocationRepository creates a new credential revocation store
func NewRevocationRepository(client *redis.Client) domain.RevocationStore {
	return &RevocationRepositoryImpl{
		client: client,
		prefix: "revoked:jti:",
		now:    time.Now,
	}
}

// Revoke implements domain.RevocationStore
func (r *RevocationRepositoryImpl) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// already expired, the verifier rejects it anyway
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+tokenID, 1, ttl).Err(); err != nil {
		return domain.Upstream("revoke credential", err)
	}
	return nil
}

// IsRevoked implements domain.RevocationStore
func (r *RevocationRepositoryImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, domain.Upstream("check credential revocation", err)
	}
	return n > 0, nil
}
