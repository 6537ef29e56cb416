package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Utkarsh-OTS/smm/pkg/logging"
	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// Snapshot is the cached result of an analysis run.
type Snapshot struct {
	Analysis    models.TweetAnalysis         `json:"analysis"`
	Suggestions []models.ProfileOptimization `json:"suggestions"`
}

// Cache stores analysis snapshots in Redis so dashboard reads skip the
// database between refreshes. A nil client disables caching; every method
// is safe to call either way.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewCache wraps the Redis client. client may be nil when Redis is not
// configured.
func NewCache(client *redis.Client, ttl time.Duration, logger logging.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("smm:analysis:%s", userID)
}

// Get returns the cached snapshot for the user, or nil on miss. Redis
// failures count as misses.
func (c *Cache) Get(ctx context.Context, userID string) *Snapshot {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("user_id", userID).Warn("Analysis cache read failed")
		}
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Dropping corrupt analysis cache entry")
		c.Invalidate(ctx, userID)
		return nil
	}
	return &snapshot
}

// Set stores the snapshot. Failures are logged, not returned; the database
// remains the source of truth.
func (c *Cache) Set(ctx context.Context, userID string, snapshot *Snapshot) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Failed to encode analysis snapshot")
		return
	}
	if err := c.client.Set(ctx, snapshotKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Analysis cache write failed")
	}
}

// Invalidate drops the user's cached snapshot.
func (c *Cache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Analysis cache invalidation failed")
	}
}
