package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
)

// DiscoveryCache keeps recently computed discovery rankings in Redis so
// repeated feed loads within the TTL don't re-run the scoring pipeline.
// A nil client disables caching; cache errors degrade to uncached operation.
type DiscoveryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewDiscoveryCache(client *redis.Client, ttl time.Duration, log logger.Logger) *DiscoveryCache {
	return &DiscoveryCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (c *DiscoveryCache) key(userID int64, mode string) string {
	return fmt.Sprintf("discovery:ranked:%d:%s", userID, mode)
}

// Get returns the cached ranking for a user and mode, or nil on miss.
func (c *DiscoveryCache) Get(ctx context.Context, userID int64, mode string) []*RankedCandidate {
	if c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, c.key(userID, mode)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("discovery cache read failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		RecordCacheMiss()
		return nil
	}

	var ranked []*RankedCandidate
	if err := json.Unmarshal(data, &ranked); err != nil {
		RecordCacheMiss()
		return nil
	}

	RecordCacheHit()
	return ranked
}

// Set stores a computed ranking; failures are logged and ignored.
func (c *DiscoveryCache) Set(ctx context.Context, userID int64, mode string, ranked []*RankedCandidate) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(ranked)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.key(userID, mode), data, c.ttl).Err(); err != nil {
		c.logger.Debug("discovery cache write failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
}
