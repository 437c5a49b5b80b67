package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedSessionPrefix = "revoked:session:"

type RedisRevocationRepository struct {
	client *redis.Client
}

func NewRedisRevocationRepository(client *redis.Client) *RedisRevocationRepository {
	return &RedisRevocationRepository{client: client}
}

// Revoke stores the session id for ttl. Already expired tokens need no entry.
func (r *RedisRevocationRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	err := r.client.Set(ctx, revokedSessionKey(sessionID), 1, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *RedisRevocationRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedSessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}

func revokedSessionKey(sessionID string) string {
	return revokedSessionPrefix + sessionID
}

// MemoryRevocationRepository is the in-process fallback used when no Redis is configured.
type MemoryRevocationRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationRepository() *MemoryRevocationRepository {
	return &MemoryRevocationRepository{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *MemoryRevocationRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ttl <= 0 {
		return nil
	}
	now := r.now()
	r.revoked[sessionID] = now.Add(ttl)

	// Clean up expired entries
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	return nil
}

func (r *MemoryRevocationRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !exp.After(r.now()) {
		delete(r.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
