package resourceconfig

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "symposia/pkg/domain"
)

const redisKeyPrefix = "rescfg:"

// redisOption is the cached wire shape; dates travel as RFC 3339 strings.
type redisOption struct {
	ID           string     `json:"id"`
	EventID      string     `json:"eventId"`
	ResourceType string     `json:"resourceType"`
	DisplayName  string     `json:"displayName"`
	Date         *time.Time `json:"date,omitempty"`
}

// RedisCache shares one staleness window across gateway replicas. A Redis
// outage degrades to direct directory reads, never to request failures.
type RedisCache struct {
	client *redis.Client
	next   Directory
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, next Directory, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, next: next, ttl: ttl, logger: logger}
}

func cacheKey(eventID id.EventID, resourceType id.ResourceType) string {
	return redisKeyPrefix + eventID.String() + ":" + string(resourceType)
}

func (c *RedisCache) Options(ctx context.Context, eventID id.EventID, resourceType id.ResourceType) ([]Option, error) {
	key := cacheKey(eventID, resourceType)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var wire []redisOption
		if decodeErr := json.Unmarshal(raw, &wire); decodeErr == nil {
			cacheLookups.WithLabelValues("redis", "hit").Inc()
			return fromWire(wire), nil
		}
		// A corrupt entry is treated as a miss and overwritten below.
	case errors.Is(err, redis.Nil):
		// miss
	default:
		if c.logger != nil {
			c.logger.WarnContext(ctx, "resource config redis read failed, falling back to directory",
				"event_id", eventID,
				"resource_type", resourceType,
				"error", err,
			)
		}
		return c.next.Options(ctx, eventID, resourceType)
	}
	cacheLookups.WithLabelValues("redis", "miss").Inc()

	options, err := c.next.Options(ctx, eventID, resourceType)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(toWire(options))
	if err == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "resource config redis write failed",
				"event_id", eventID,
				"resource_type", resourceType,
				"error", setErr,
			)
		}
	}
	return options, nil
}

func toWire(options []Option) []redisOption {
	wire := make([]redisOption, 0, len(options))
	for _, opt := range options {
		wire = append(wire, redisOption{
			ID:           opt.ID.String(),
			EventID:      opt.EventID.String(),
			ResourceType: string(opt.ResourceType),
			DisplayName:  opt.DisplayName,
			Date:         opt.Date,
		})
	}
	return wire
}

func fromWire(wire []redisOption) []Option {
	options := make([]Option, 0, len(wire))
	for _, w := range wire {
		optionID, err := id.ParseOptionID(w.ID)
		if err != nil {
			continue
		}
		eventID, err := id.ParseEventID(w.EventID)
		if err != nil {
			continue
		}
		options = append(options, Option{
			ID:           optionID,
			EventID:      eventID,
			ResourceType: id.ResourceType(w.ResourceType),
			DisplayName:  w.DisplayName,
			Date:         w.Date,
		})
	}
	return options
}
