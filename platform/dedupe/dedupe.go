// Package dedupe provides a redis-backed guard against replayed inbound
// events. Channel adapters deliver webhooks at-least-once; the guard keeps
// the ingestion path idempotent at the event-id level.
// This is part of the platform layer and contains no business logic.
package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ingest:event:"

// Guard records seen event ids with a TTL. FirstSeen is an atomic SET NX, so
// concurrent deliveries of the same event resolve to exactly one winner.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Guard around an existing redis client.
func New(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{client: client, ttl: ttl}
}

// FirstSeen reports whether this is the first delivery of eventID. A nil
// guard or nil client always reports true, so ingestion degrades to
// non-idempotent rather than failing when redis is not configured.
func (g *Guard) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if g == nil || g.client == nil || eventID == "" {
		return true, nil
	}

	ok, err := g.client.SetNX(ctx, keyPrefix+eventID, 1, g.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
