// internal/support/store/dedup.go
package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupGuard takes a short-lived exclusive claim on a message before the
// pipeline runs. It keeps two concurrent workers off the same message; the
// database unique constraint remains the durable backstop.
type DedupGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupGuard(client *redis.Client, ttl time.Duration) *DedupGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DedupGuard{client: client, ttl: ttl}
}

func (g *DedupGuard) key(messageID string) string {
	return "inbox:claim:" + messageID
}

// Claim returns true when this caller won the claim for the message.
func (g *DedupGuard) Claim(ctx context.Context, messageID string) (bool, error) {
	return g.client.SetNX(ctx, g.key(messageID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

// Release drops the claim so the message can be retried after a failure.
func (g *DedupGuard) Release(ctx context.Context, messageID string) error {
	return g.client.Del(ctx, g.key(messageID)).Err()
}
