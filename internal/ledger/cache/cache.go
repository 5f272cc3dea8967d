// Package cache fronts ledger verification with a Redis-backed result cache.
// Verify is idempotent, so cached results are always safe to serve; the
// cache exists because public verification pages hit the same signatures
// repeatedly.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"orbit/internal/ledger"
	platformredis "orbit/internal/platform/redis"
)

const keyPrefix = "ledger:verify:"

// VerifiedTTL applies to found signatures; misses get a short TTL so a
// freshly confirmed transaction shows up quickly.
const (
	VerifiedTTL = 24 * time.Hour
	MissTTL     = 30 * time.Second
)

// Verifier is the subset of ledger.Client the cache decorates.
type Verifier interface {
	Verify(ctx context.Context, signature string) (ledger.VerifyResult, error)
}

// CachedVerifier wraps a Verifier with Redis. A nil redis client makes it a
// passthrough.
type CachedVerifier struct {
	inner  Verifier
	redis  *platformredis.Client
	logger *slog.Logger
}

// New builds a cached verifier.
func New(inner Verifier, redis *platformredis.Client, logger *slog.Logger) *CachedVerifier {
	return &CachedVerifier{inner: inner, redis: redis, logger: logger}
}

// Verify serves from cache when possible, falling back to the inner client.
// Cache failures degrade to a direct lookup.
func (v *CachedVerifier) Verify(ctx context.Context, signature string) (ledger.VerifyResult, error) {
	if v.redis == nil {
		return v.inner.Verify(ctx, signature)
	}

	key := keyPrefix + signature
	if raw, err := v.redis.Get(ctx, key).Bytes(); err == nil {
		var cached ledger.VerifyResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	result, err := v.inner.Verify(ctx, signature)
	if err != nil {
		return result, err
	}

	ttl := MissTTL
	if result.Found {
		ttl = VerifiedTTL
	}
	if raw, err := json.Marshal(result); err == nil {
		if err := v.redis.Set(ctx, key, raw, ttl).Err(); err != nil && v.logger != nil {
			v.logger.WarnContext(ctx, "verify cache write failed", "signature", signature, "error", err)
		}
	}
	return result, nil
}
