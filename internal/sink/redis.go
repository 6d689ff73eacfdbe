package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"upscale/tap/internal/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSink appends every message to a Redis stream per tap stream
type RedisSink struct {
	client       streamAdder
	redisClient  *redis.Client
	streamPrefix string
}

func NewRedisSink(ctx context.Context, cfg config.RedisConfig) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	s := newRedisSink(rdb, cfg.StreamPrefix)
	s.redisClient = rdb
	return s, nil
}

func newRedisSink(client streamAdder, streamPrefix string) *RedisSink {
	return &RedisSink{client: client, streamPrefix: streamPrefix}
}

func (s *RedisSink) WriteSchema(ctx context.Context, stream string, schema json.RawMessage, keyProperties []string) error {
	return s.add(ctx, stream, "SCHEMA", newSchemaMessage(stream, schema, keyProperties))
}

func (s *RedisSink) WriteRecord(ctx context.Context, stream string, record any) error {
	return s.add(ctx, stream, "RECORD", record)
}

func (s *RedisSink) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}

func (s *RedisSink) add(ctx context.Context, stream, messageType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s message for %s: %w", messageType, stream, err)
	}

	streamName := s.streamPrefix + stream
	messageID, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"type": messageType,
			"data": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to add %s message to Redis stream %s: %w", messageType, streamName, err)
	}

	log.Tracef("Added %s message to stream %s with message ID: %s", messageType, streamName, messageID)
	return nil
}
